package socketrpc

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/tinytelemetry/quickstart/internal/host"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes model.Controller over a Unix domain socket.
//
//   Method           Params                          Result
//   ──────────────   ─────────────────────────────   ───────────────────
//   Activate         {Page: string}                  string (active id)
//   ReturnHome       (none)                          string (active id)
//   Press            {Trigger: string}               string (active id)
//   Active           (none)                          string
//   Pages            (none)                          []PageStatus
//   AddSpider        {ID: string, Name: string}      bool (set changed)
//   RemoveSpider     {ID: string}                    bool (set changed)
//   Spiders          (none)                          []SpiderInfo
//   OptionsChanged   {Options: Options}              Options
//   Options          (none)                          Options
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params
//   -32603  Internal error (marshal failure)
//   -32000  Application error
//   -32001  Unknown page
//   -32002  Page construction failed
//   -32003  Unknown trigger

const (
	codeParse             = -32700
	codeMethodNotFound    = -32601
	codeInvalidParams     = -32602
	codeInternal          = -32603
	codeApplication       = -32000
	codeUnknownPage       = -32001
	codeConstructionError = -32002
	codeUnknownTrigger    = -32003
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// Is lets callers test remote failures against the host sentinels.
func (e *RPCError) Is(target error) bool {
	switch e.Code {
	case codeUnknownPage:
		return target == host.ErrUnknownPage
	case codeConstructionError:
		return target == host.ErrConstructionFailure
	case codeUnknownTrigger:
		return target == host.ErrUnknownTrigger
	}
	return false
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, host.ErrUnknownPage):
		return codeUnknownPage
	case errors.Is(err, host.ErrConstructionFailure):
		return codeConstructionError
	case errors.Is(err, host.ErrUnknownTrigger):
		return codeUnknownTrigger
	default:
		return codeApplication
	}
}

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/quickstart/quickstart.sock, falling back to
// ~/.local/state/quickstart/quickstart.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "quickstart", "quickstart.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/quickstart.sock"
	}
	return filepath.Join(home, ".local", "state", "quickstart", "quickstart.sock")
}
