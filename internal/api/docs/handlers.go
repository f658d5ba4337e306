package docs

import (
	"html/template"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-yaml"
)

// Routes served by Mount
const (
	JSONPath  = "/openapi.json"
	YAMLPath  = "/openapi.yaml"
	SwaggerUI = "/docs"
	ReDocPath = "/redoc"
)

var swaggerPage = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Title}} - Swagger UI</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
const ui = SwaggerUIBundle({
  url: "{{.SpecURL}}",
  dom_id: "#swagger-ui",
  deepLinking: true,
  presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
  layout: "BaseLayout"
})
</script>
</body>
</html>
`))

var redocPage = template.Must(template.New("redoc").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Title}} - ReDoc</title>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body { margin: 0; padding: 0; }</style>
</head>
<body>
<redoc spec-url="{{.SpecURL}}"></redoc>
<script src="https://cdn.jsdelivr.net/npm/redoc@2/bundles/redoc.standalone.js"></script>
</body>
</html>
`))

type page struct {
	Title   string
	SpecURL string
}

// Mount registers the documentation routes on router and documents them
// in doc as well.
func Mount(router gin.IRoutes, doc *Document) {
	router.GET(JSONPath, serveJSON(doc))
	router.GET(YAMLPath, serveYAML(doc))
	router.GET(SwaggerUI, servePage(swaggerPage, doc))
	router.GET(ReDocPath, servePage(redocPage, doc))
}

func serveJSON(doc *Document) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := sonic.Marshal(doc.Spec())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json", body)
	}
}

func serveYAML(doc *Document) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := yaml.Marshal(doc.Spec())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/yaml", body)
	}
}

func servePage(tmpl *template.Template, doc *Document) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		err := tmpl.Execute(c.Writer, page{Title: doc.info.Title, SpecURL: JSONPath})
		if err != nil {
			_ = c.Error(err)
		}
	}
}
