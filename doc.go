// Package route is a declarative controller framework for net/http. Each
// controller is a Group of named handlers; every handler carries a list of
// declarations that record its verb, path, validation rules, and OpenAPI
// documentation into an explicit metadata Store.
//
// Declarations read like annotations on the handler they describe:
//
//	route.Group{
//	    Name:   "login",
//	    Prefix: "/login",
//	    Handlers: []route.Def{
//	        route.Handle("sign", c.sign,
//	            route.Post("/sign"),
//	            route.Validate(route.Body("username").NotEmpty(), route.Body("password").NotEmpty()),
//	            route.Summary("Sign in"),
//	            route.DocPath("/login/sign"),
//	            route.Response(http.StatusOK, "Success", nil),
//	        ),
//	    },
//	}
//
// Registration runs once at startup. The Registry evaluates every declaration,
// freezes the Store, and walks the groups a single time to produce one
// Endpoint per handler. The Router binds each routable Endpoint under
// base path + path to the chain [validation, custom middleware..., handler]
// and renders the documented Endpoints into an OpenAPI 3.0 document:
//
//	r := route.New(route.WithTitle("My API"), route.WithVersion("1.0.0"))
//	if err := r.Register(loginController, userController); err != nil {
//	    return err
//	}
//	r.ServeSpec("/swagger.json")
//	r.ServeSwaggerUI("/api-docs", "/swagger.json")
//
// Middleware uses the standard func(http.Handler) http.Handler signature,
// so the entire Go middleware ecosystem works natively.
package route
