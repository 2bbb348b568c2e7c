package main

// General API documentation for swaggo. Run `swag init -g cmd/mlmodeld/docs.go`
// to generate docs, then build with -tags=swagger to serve /swagger/.
//
// @title           mlmodeld API
// @version         1.0
// @description     HTTP API for an in-memory registry of named, trainable ML models.
//
// @BasePath  /
//
// @schemes http
