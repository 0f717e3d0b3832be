package controllers

import (
	"log/slog"
	"net/http"

	"github.com/bjaus/route"
	"github.com/bjaus/route/internal/upload"
)

// Upload serves /upload.
type Upload struct {
	log  *slog.Logger
	disk upload.Disk
}

type uploadResult struct {
	Message string `json:"message"`
}

// Routes declares the upload group. All three endpoints share one handler;
// only the documentation differs.
func (c *Upload) Routes() route.Group {
	return route.Group{
		Name:   "upload",
		Prefix: "/upload",
		Handlers: []route.Def{
			c.def("file", "/file", "上传文件"),
			c.def("picture", "/picture", "上传照片"),
			c.def("avatar", "/avatar", "上传头像"),
		},
	}
}

func (c *Upload) def(name, path, summary string) route.Def {
	return route.Handle(name, c.store,
		route.Post(path, c.disk.Single("file")),
		route.Summary(summary),
		route.DocPath("/upload"+path),
		route.File("file", true, "上传的文件"),
		route.ResponseOf[uploadResult](http.StatusOK, "上传成功"),
		route.ResponseOf[uploadResult](http.StatusBadRequest, "文件不能为空"),
	)
}

func (c *Upload) store(w http.ResponseWriter, r *http.Request) {
	f := upload.FromContext(r)
	if f == nil {
		route.JSON(w, http.StatusBadRequest, uploadResult{Message: "文件不能为空"})
		return
	}
	c.log.InfoContext(r.Context(), "file uploaded",
		"field", f.Field,
		"name", f.OriginalName,
		"path", f.Path,
		"size", f.Size,
	)
	route.JSON(w, http.StatusOK, uploadResult{Message: "File uploaded successfully"})
}
