package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"eventgate.io/eventgate/config"
	"eventgate.io/eventgate/core"
	"eventgate.io/eventgate/web/handlers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DSN == "" {
		log.Fatal("DSN is required (env DSN or config file)")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}

	dm, err := core.New(cfg.DSN, cfg.MaxConnections, core.LogLevelWarn)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	if err := dm.Migrate(); err != nil {
		log.Fatal(err)
	}

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	handlers.Register(r.Group("/api"), dm, loc)

	// Scanner app and admin panel.
	r.StaticFile("/", "./public/index.html")
	r.Static("/assets", "./public/assets")
	r.NoRoute(func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.Redirect(http.StatusFound, "/")
		}
	})

	log.Printf("Server running on %s (event timezone %s)", cfg.Addr, loc)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
