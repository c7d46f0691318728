package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"mantisbeanstalk/internal"
	"mantisbeanstalk/internal/env"
	"mantisbeanstalk/internal/events"
	"mantisbeanstalk/internal/swagger"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

func main() {
	deployment := flag.String("deployment", "", "deployment profile (dev|test|prod)")
	portFlag := flag.String("port", "", "port to listen on")
	envRoot := flag.String("env-root", "", "directory containing environment files")
	appVersion := flag.String("app-version", "", "application version override")

	flag.Parse()

	deploy := strings.TrimSpace(*deployment)
	if deploy == "" {
		args := flag.Args()
		if len(args) == 0 {
			fmt.Println("Usage: server --deployment <type> --port <port> [--env-root <dir>] [--app-version <version>]")
			os.Exit(1)
		}
		deploy = strings.TrimSpace(args[0])
	}

	if deploy == "" {
		log.Fatal("deployment is required")
	}

	port := strings.TrimSpace(*portFlag)
	if port == "" {
		log.Fatal("port is required")
	}

	app := internal.SetupApp(deploy, *envRoot, *appVersion)
	swagger.Register(app)

	logger := zap.L()
	defer func() {
		events.Em.Close()
		_ = logger.Sync()
	}()

	logger.Info("listening", zap.String("port", port), zap.String("version", env.VERSION))

	if err := app.Listen(fmt.Sprintf(":%s", port), fiber.ListenConfig{
		EnablePrefork: env.PREFORK,
	}); err != nil {
		logger.Error("listen failed", zap.String("port", port), zap.Error(err))
		return
	}
}
