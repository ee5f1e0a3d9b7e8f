package controllers

import (
	"os"

	"courseplatform/backend/config"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type FilesController struct {
	Cfg     *config.Config
	Storage *utils.Storage
}

func NewFilesController(cfg *config.Config, storage *utils.Storage) *FilesController {
	return &FilesController{Cfg: cfg, Storage: storage}
}

// ServeUpload streams a stored file to an authenticated client. The requested
// path is confined to the storage root.
func (fc *FilesController) ServeUpload(c *fiber.Ctx) error {
	relPath := c.Params("*")
	if relPath == "" || !fc.Storage.Contains(relPath) {
		return utils.NotFound(c, "File not found")
	}

	abs := fc.Storage.Abs(relPath)
	if info, err := os.Stat(abs); err != nil || info.IsDir() {
		return utils.NotFound(c, "File not found")
	}

	return c.SendFile(abs)
}
