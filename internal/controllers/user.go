package controllers

import (
	"log/slog"
	"maps"
	"net/http"

	"github.com/bjaus/route"
)

// User serves /users.
type User struct {
	log *slog.Logger
}

type user struct {
	ID   any    `json:"id" doc:"用户ID"`
	Name string `json:"name" doc:"用户名"`
}

// Routes declares the user group.
func (c *User) Routes() route.Group {
	return route.Group{
		Name:   "users",
		Prefix: "/users",
		Handlers: []route.Def{
			route.Handle("list", c.list,
				route.Get("/"),
				pagination(),
				route.Summary("获取用户列表"),
				route.DocPath("/users/"),
				paginationDocs(),
				route.ResponseOf[[]user](http.StatusOK, "查询成功"),
			),
			route.Handle("get", c.get,
				route.Get("/get/{id}"),
				route.Summary("获取用户详情"),
				route.DocPath("/users/get/{id}"),
				route.PathParams(route.StringParam("id", "用户id", true)),
				route.ResponseOf[user](http.StatusOK, "查询成功"),
			),
			route.Handle("create", c.create,
				route.Post("/create"),
				route.Validate(
					route.Body("username").NotEmpty(),
					route.Body("password").NotEmpty(),
				),
				route.Summary("创建用户"),
				route.DocPath("/users/create"),
				route.JSONBody(
					route.Prop{Name: "username", Type: "string", Description: "用户名", Required: true},
					route.Prop{Name: "password", Type: "string", Description: "密码", Required: true},
				),
				route.Response(http.StatusCreated, "创建成功", nil),
			),
			route.Handle("update", c.update,
				route.Put("/update"),
				route.Validate(
					route.Body("userId").NotEmpty(),
					route.Body("username").NotEmpty(),
				),
				route.Summary("更新用户"),
				route.DocPath("/users/update"),
				route.JSONBody(
					route.Prop{Name: "userId", Type: "string", Description: "用户id", Required: true},
					route.Prop{Name: "username", Type: "string", Description: "用户名", Required: true},
					route.Prop{Name: "sex", Type: "string", Description: "性别"},
					route.Prop{Name: "email", Type: "string", Format: "email", Description: "邮箱"},
					route.Prop{Name: "phone", Type: "string", Description: "手机号"},
				),
				route.Response(http.StatusOK, "更新成功", nil),
				route.ResponseOf[message](http.StatusInternalServerError, "更新失败"),
			),
		},
	}
}

func (c *User) list(w http.ResponseWriter, _ *http.Request) {
	route.JSON(w, http.StatusOK, []user{{ID: 1, Name: "Alice"}})
}

func (c *User) get(w http.ResponseWriter, r *http.Request) {
	c.log.DebugContext(r.Context(), "get user", "path", r.URL.Path)
	route.JSON(w, http.StatusOK, user{ID: route.URLParam(r, "id"), Name: "Alice"})
}

func (c *User) create(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{}
	if err := route.Decode(r, &body); err != nil {
		route.WriteError(w, err)
		return
	}
	c.log.DebugContext(r.Context(), "create user", "username", body["username"])

	resp := map[string]any{"id": 2}
	maps.Copy(resp, body)
	route.JSON(w, http.StatusCreated, resp)
}

func (c *User) update(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{}
	if err := route.Decode(r, &body); err != nil {
		route.WriteError(w, err)
		return
	}

	id, ok := body["id"]
	if !ok || isZero(id) {
		route.JSON(w, http.StatusInternalServerError, message{Msg: "更新失败"})
		return
	}

	resp := map[string]any{"id": id}
	maps.Copy(resp, body)
	route.JSON(w, http.StatusOK, resp)
}

// isZero mirrors a falsy check on a decoded JSON value.
func isZero(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0
	default:
		return false
	}
}
