package startup

import (
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/config"
)

// Banner writes the five startup lines announcing the service and its
// documentation URLs.
func Banner(w io.Writer, host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	_, err := fmt.Fprintf(w,
		"Starting %s on %s\n"+
			"API Documentation will be available at:\n"+
			" - Swagger UI: http://%s/docs\n"+
			" - ReDoc: http://%s/redoc\n"+
			" - OpenAPI JSON: http://%s/openapi.json\n",
		config.ServiceName, addr, addr, addr, addr,
	)
	return err
}
