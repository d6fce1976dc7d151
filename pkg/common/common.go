package common

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	idNode     *snowflake.Node
	idNodeOnce sync.Once
)

func idGen() *snowflake.Node {
	idNodeOnce.Do(func() {
		node, err := snowflake.NewNode(1)
		if err != nil {
			panic(fmt.Sprintf("snowflake init failed: %v", err))
		}
		idNode = node
	})
	return idNode
}

// UUIDint64 returns a new snowflake id as int64.
func UUIDint64() int64 {
	return idGen().Generate().Int64()
}

// UUID returns a new snowflake id rendered as a decimal string.
// Used wherever an opaque non-empty string identity is required.
func UUID() string {
	return idGen().Generate().String()
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EmptyAny reports whether any of the given strings is blank after trimming.
func EmptyAny(vals ...string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
