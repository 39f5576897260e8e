package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the jobs API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRoutes) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>jobs-api - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "jobs-api", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Company": {
        "type": "object",
        "required": ["name", "contactEmail"],
        "properties": {
          "name": { "type": "string" },
          "description": { "type": "string" },
          "contactEmail": { "type": "string" },
          "contactPhone": { "type": "string" }
        }
      },
      "Job": {
        "type": "object",
        "required": ["type", "title", "description", "salary", "location", "company"],
        "properties": {
          "id": { "type": "string", "readOnly": true },
          "type": { "type": "string", "example": "Full-time" },
          "title": { "type": "string" },
          "description": { "type": "string" },
          "salary": { "type": "string" },
          "location": { "type": "string" },
          "company": { "$ref": "#/components/schemas/Company" },
          "createdAt": { "type": "string", "format": "date-time", "readOnly": true },
          "updatedAt": { "type": "string", "format": "date-time", "readOnly": true }
        }
      },
      "NotFound": { "type": "object", "properties": { "message": { "type": "string" } } },
      "Error": { "type": "object", "properties": { "status": { "type": "string" }, "message": { "type": "string" } } }
    }
  },
  "paths": {
    "/": { "get": { "summary": "Liveness message", "responses": { "200": { "description": "server started" } } } },
    "/jobs": {
      "get": {
        "summary": "List jobs",
        "responses": {
          "200": { "description": "all jobs", "content": { "application/json": { "schema": { "type": "array", "items": { "$ref": "#/components/schemas/Job" } } } } },
          "500": { "description": "store fault" }
        }
      },
      "post": {
        "summary": "Create a job",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Job" } } } },
        "responses": {
          "201": { "description": "created: {status, job}" },
          "500": { "description": "validation failure or store fault", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Error" } } } }
        }
      }
    },
    "/jobs/{id}": {
      "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ],
      "get": {
        "summary": "Get a job",
        "responses": {
          "200": { "description": "the job", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Job" } } } },
          "404": { "description": "Job not found", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/NotFound" } } } },
          "500": { "description": "malformed id or store fault" }
        }
      },
      "put": {
        "summary": "Update a job (partial or full)",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Job" } } } },
        "responses": {
          "200": { "description": "updated: {status, job}" },
          "404": { "description": "Job not found" },
          "500": { "description": "validation failure or store fault" }
        }
      },
      "delete": {
        "summary": "Delete a job",
        "responses": {
          "200": { "description": "deleted: {status, message, job}" },
          "404": { "description": "Job not found" },
          "500": { "description": "store fault" }
        }
      }
    },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
