package main

import (
	// "sqlite3"; modernc.org/sqlite ("sqlite") is registered by the sqlite
	// package.
	_ "github.com/mattn/go-sqlite3"
)
