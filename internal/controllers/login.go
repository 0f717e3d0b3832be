package controllers

import (
	"log/slog"
	"net/http"

	"github.com/bjaus/route"
)

// Login serves /login.
type Login struct {
	log *slog.Logger
}

// Routes declares the login group.
func (c *Login) Routes() route.Group {
	return route.Group{
		Name:   "login",
		Prefix: "/login",
		Handlers: []route.Def{
			route.Handle("sign", c.sign,
				route.Post("/sign"),
				route.Validate(
					route.Body("username").NotEmpty(),
					route.Body("password").NotEmpty(),
					route.Body("code").NotEmpty(),
				),
				route.Summary("登陆"),
				route.DocPath("/login/sign"),
				route.JSONBody(
					route.Prop{Name: "username", Type: "string", Description: "用户名", Required: true},
					route.Prop{Name: "password", Type: "string", Description: "密码", Required: true},
					route.Prop{Name: "code", Type: "string", Description: "验证码", Required: true},
				),
				route.ResponseOf[message](http.StatusOK, "成功"),
			),
			route.Handle("out", c.out,
				route.Post("/out"),
				route.Require("userId"),
				route.Summary("登出"),
				route.DocPath("/login/out"),
				route.JSONBody(
					route.Prop{Name: "userId", Type: "string", Description: "用户名ID", Required: true},
				),
				route.ResponseOf[message](http.StatusOK, "成功"),
			),
		},
	}
}

func (c *Login) sign(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := route.Decode(r, &body); err != nil {
		route.WriteError(w, err)
		return
	}
	c.log.DebugContext(r.Context(), "sign in", "username", body["username"])
	route.JSON(w, http.StatusOK, message{Msg: "login success"})
}

func (c *Login) out(w http.ResponseWriter, r *http.Request) {
	c.log.DebugContext(r.Context(), "sign out")
	route.JSON(w, http.StatusOK, message{Msg: "logout success"})
}
