package socketrpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tinytelemetry/quickstart/internal/model"
)

// Client drives a remote panel over a Unix domain socket using JSON-RPC 2.0.
// Every call reports transport failures, so it mirrors model.Controller
// with an error on each method.
type Client struct {
	conn    net.Conn
	mu      sync.Mutex
	nextID  int
	scanner *bufio.Scanner
	encoder *json.Encoder
}

// Dial connects to the socket RPC server at the given path.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("socketrpc: dial: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, scannerInitBufSize), scannerMaxTokenSize)
	return &Client{
		conn:    conn,
		scanner: scanner,
		encoder: json.NewEncoder(conn),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// call performs a JSON-RPC call and unmarshals the result into dest.
func (c *Client) call(method string, params interface{}, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	paramsData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("socketrpc: marshal params: %w", err)
	}

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	c.conn.SetDeadline(time.Now().Add(10 * time.Second))
	defer c.conn.SetDeadline(time.Time{})

	if err := c.encoder.Encode(req); err != nil {
		return fmt.Errorf("socketrpc: send: %w", err)
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return fmt.Errorf("socketrpc: read: %w", err)
		}
		return fmt.Errorf("socketrpc: connection closed")
	}

	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return fmt.Errorf("socketrpc: unmarshal response: %w", err)
	}

	if resp.Error != nil {
		return resp.Error
	}

	if dest != nil {
		if err := json.Unmarshal(resp.Result, dest); err != nil {
			return fmt.Errorf("socketrpc: unmarshal result: %w", err)
		}
	}
	return nil
}

// Activate selects a page and returns the resulting active id.
func (c *Client) Activate(id model.PageID) (model.PageID, error) {
	var result model.PageID
	err := c.call("Activate", map[string]interface{}{"Page": id}, &result)
	return result, err
}

func (c *Client) ReturnHome() (model.PageID, error) {
	var result model.PageID
	err := c.call("ReturnHome", nil, &result)
	return result, err
}

func (c *Client) Press(trigger string) (model.PageID, error) {
	var result model.PageID
	err := c.call("Press", map[string]interface{}{"Trigger": trigger}, &result)
	return result, err
}

func (c *Client) Active() (model.PageID, error) {
	var result model.PageID
	err := c.call("Active", nil, &result)
	return result, err
}

func (c *Client) Pages() ([]model.PageStatus, error) {
	var result []model.PageStatus
	err := c.call("Pages", nil, &result)
	return result, err
}

// AddSpider registers a spider and reports whether the set changed.
func (c *Client) AddSpider(id, name string) (bool, error) {
	var result bool
	err := c.call("AddSpider", map[string]interface{}{"ID": id, "Name": name}, &result)
	return result, err
}

// RemoveSpider withdraws a spider and reports whether the set changed.
func (c *Client) RemoveSpider(id string) (bool, error) {
	var result bool
	err := c.call("RemoveSpider", map[string]interface{}{"ID": id}, &result)
	return result, err
}

func (c *Client) Spiders() ([]model.SpiderInfo, error) {
	var result []model.SpiderInfo
	err := c.call("Spiders", nil, &result)
	return result, err
}

func (c *Client) OptionsChanged(opts model.Options) (model.Options, error) {
	var result model.Options
	err := c.call("OptionsChanged", map[string]interface{}{"Options": opts}, &result)
	return result, err
}

func (c *Client) Options() (model.Options, error) {
	var result model.Options
	err := c.call("Options", nil, &result)
	return result, err
}
