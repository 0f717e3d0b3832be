package controllers

import (
	"net/http"

	"github.com/bjaus/route"
)

// Logs serves /logs.
type Logs struct{}

// Routes declares the logs group.
func (c *Logs) Routes() route.Group {
	return route.Group{
		Name:   "logs",
		Prefix: "/logs",
		Handlers: []route.Def{
			c.def("login", "/login", "登录日志", "获取登录日志成功", "get login logs"),
			c.def("users", "/users", "获取用户日志", "获取用户日志成功", "get users logs"),
			c.def("upload", "/upload", "文件上传日志", "获取文件上传日志成功", "get upload logs"),
		},
	}
}

func (c *Logs) def(name, path, summary, ok, reply string) route.Def {
	h := func(w http.ResponseWriter, _ *http.Request) {
		route.JSON(w, http.StatusOK, reply)
	}
	return route.Handle(name, h,
		route.Get(path),
		pagination(),
		route.Summary(summary),
		route.DocPath("/logs"+path),
		paginationDocs(),
		route.Response(http.StatusOK, ok, &route.JSONSchema{
			Type:  "array",
			Items: &route.JSONSchema{Type: "string"},
		}),
	)
}
