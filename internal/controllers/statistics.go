package controllers

import (
	"net/http"

	"github.com/bjaus/route"
)

// Statistics serves /stat.
type Statistics struct{}

type statUser struct {
	ID   float64 `json:"id" doc:"用户ID"`
	Name string  `json:"name" doc:"用户名"`
	Age  float64 `json:"age" doc:"年龄"`
}

type page[T any] struct {
	Data     []T `json:"data"`
	Total    int `json:"total" doc:"总记录数"`
	Page     int `json:"page" doc:"当前页码"`
	PageSize int `json:"pageSize"`
}

// Routes declares the statistics group. The prefix has no leading slash;
// the base path is normalized to /stat.
func (c *Statistics) Routes() route.Group {
	return route.Group{
		Name:   "stat",
		Prefix: "stat",
		Handlers: []route.Def{
			route.Handle("login", c.stat,
				route.Get("/login"),
				pagination(),
				route.Summary("登录统计"),
				route.DocPath("/stat/login"),
				paginationDocs(),
				route.Response(http.StatusOK, "success", &route.JSONSchema{}),
				route.Response(http.StatusInternalServerError, "获取登录统计失败", nil),
			),
			route.Handle("users", c.stat,
				route.Get("/users"),
				pagination(),
				route.Summary("用户统计"),
				route.DocPath("/stat/users"),
				paginationDocs(),
				route.ResponseOf[page[statUser]](http.StatusOK, "success"),
				route.Response(http.StatusInternalServerError, "获取用户统计失败", nil),
			),
		},
	}
}

func (c *Statistics) stat(w http.ResponseWriter, _ *http.Request) {
	route.JSON(w, http.StatusOK, page[statUser]{
		Data:     []statUser{},
		Total:    100,
		Page:     1,
		PageSize: 10,
	})
}
