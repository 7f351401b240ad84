package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// PostgresDSN builds a lib/pq key/value connection string.
func PostgresDSN(e Endpoint) string {
	port := e.Port
	if port == 0 {
		port = 5432
	}
	sslMode := e.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	host := e.Host
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, e.User, e.Password, e.Database, sslMode,
	)
}

// MySQLDSN builds a go-sql-driver/mysql DSN.
func MySQLDSN(e Endpoint) string {
	port := e.Port
	if port == 0 {
		port = 3306
	}
	host := e.Host
	if host == "" {
		host = "localhost"
	}
	// Format: user:password@tcp(host:port)/dbname?parseTime=true
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		e.User, e.Password, host, port, e.Database,
	)
	if e.SSLMode == "require" {
		dsn += "&tls=true"
	}
	return dsn
}

// MongoURI builds a mongodb:// URI. A Host that already is a full URI
// (mongodb:// or mongodb+srv://) is returned with any password
// placeholder filled in.
func MongoURI(e Endpoint) string {
	if strings.HasPrefix(e.Host, "mongodb+srv://") || strings.HasPrefix(e.Host, "mongodb://") {
		uri := e.Host
		if e.Password != "" {
			uri = strings.ReplaceAll(uri, "<password>", url.QueryEscape(e.Password))
			uri = strings.ReplaceAll(uri, "<db_password>", url.QueryEscape(e.Password))
		}
		return uri
	}
	host := e.Host
	if host == "" {
		host = "localhost"
	}
	port := e.Port
	if port == 0 {
		port = 27017
	}
	if e.User != "" {
		return fmt.Sprintf("mongodb://%s@%s:%d", url.UserPassword(e.User, e.Password).String(), host, port)
	}
	return fmt.Sprintf("mongodb://%s:%d", host, port)
}
