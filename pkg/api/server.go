// Package api provides the REST API server for midi2song
package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/james-see/midi2song/pkg/importer"
	"github.com/james-see/midi2song/pkg/project"
	"github.com/james-see/midi2song/pkg/smfseq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title MIDI2Song API
// @version 1.0
// @description API for importing MIDI files into a structured song project
// @host localhost:8080
// @BasePath /api/v1

// Config holds server-side import options.
type Config struct {
	SoundFontPath string
	PatchDir      string
}

// StartServer starts the API server on the specified port
func StartServer(port int, cfg Config) error {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/import", importHandler(cfg))
		v1.GET("/info", serverInfo)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r.Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "midi2song",
	})
}

// serverInfo godoc
// @Summary Describe supported input formats
// @Description Returns accepted input formats and the output description
// @Tags info
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/info [get]
func serverInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"inputs": []string{"smf (.mid, .midi)", "rmid (.rmi)"},
		"output": "song project JSON (instrument tracks, automation tracks, tempo and time-signature curves)",
	})
}

// importHandler godoc
// @Summary Import a MIDI file
// @Description Upload an SMF or RMID file and receive the translated song project
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "MIDI file to import"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /api/v1/import [post]
func importHandler(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}

		seq, err := smfseq.Parse(data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		proj := project.New(project.Options{
			SoundFontPath: cfg.SoundFontPath,
			PatchDir:      cfg.PatchDir,
		})
		res, err := importer.Translate(seq, proj, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"result":  res,
			"project": proj,
		})
	}
}
