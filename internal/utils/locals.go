package utils

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
)

// SetLocals stores data as JSON under name for later handlers.
func SetLocals(c fiber.Ctx, name string, data any) {
	bytes, _ := json.Marshal(data)
	c.Locals(name, string(bytes))
}
