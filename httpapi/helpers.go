package httpapi

import (
	"fmt"
	"strconv"

	"github.com/kvcache-dev/kvcache/webserver"
)

func queryInt(c webserver.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func errInvalidParam(name, constraint string) error {
	return fmt.Errorf("%s must be %s", name, constraint)
}
