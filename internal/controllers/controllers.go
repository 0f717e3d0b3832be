// Package controllers holds the stub REST groups. Each controller answers
// with canned data; the point is the declarations, not the behavior.
package controllers

import (
	"log/slog"

	"github.com/bjaus/route"
	"github.com/bjaus/route/internal/upload"
)

// Deps are the collaborators shared by the controllers.
type Deps struct {
	Logger  *slog.Logger
	Uploads upload.Disk
}

// All returns every controller in registration order.
func All(d Deps) []route.Controller {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return []route.Controller{
		&Login{log: d.Logger},
		&User{log: d.Logger},
		&Upload{log: d.Logger, disk: d.Uploads},
		&Logs{},
		&Statistics{},
	}
}

// pagination requires the limit and page query parameters.
func pagination() route.Declaration {
	return route.Validate(
		route.Query("limit").NotEmpty(),
		route.Query("page").NotEmpty(),
	)
}

// paginationDocs documents the limit and page query parameters.
func paginationDocs() route.Declaration {
	integer := route.JSONSchema{Type: "integer"}
	return route.QueryParams(
		route.Parameter{Name: "page", Description: "页码", Required: true, Schema: integer},
		route.Parameter{Name: "limit", Description: "每页数量", Required: true, Schema: integer},
	)
}

type message struct {
	Msg string `json:"msg"`
}
