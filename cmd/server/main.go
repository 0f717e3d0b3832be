// Command server runs the stub REST API or prints its OpenAPI document.
//
// Run:
//
//	go run ./cmd/server serve
//
// Generate the OpenAPI spec:
//
//	go run ./cmd/server spec                  print JSON to stdout
//	go run ./cmd/server spec --yaml -o api.yaml
//	go run ./cmd/server spec --validate       fail on an invalid document
//
// Then explore:
//
//	GET  http://localhost:3000/api-docs       Swagger UI
//	GET  http://localhost:3000/swagger.json   OpenAPI spec
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
