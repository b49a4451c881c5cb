package common

import (
	"fmt"
	"math"

	"github.com/ivantohelpyou/vikunja-mcp/internal/server"
)

// GetInstanceFromArgs extracts the instance name from request arguments.
// Returns "" when no instance is given, which downstream code resolves to
// the configured current instance.
func GetInstanceFromArgs(args map[string]interface{}) string {
	if instanceVal, ok := args["instance"].(string); ok {
		return instanceVal
	}
	return ""
}

// ResolveInstance returns the effective instance name for a request:
// the explicit argument if present, otherwise the store's current
// instance.
func ResolveInstance(args map[string]interface{}, sc *server.ServerContext) string {
	if instance := GetInstanceFromArgs(args); instance != "" {
		return instance
	}
	current, err := sc.Store().CurrentInstance()
	if err != nil {
		return ""
	}
	return current
}

// GetInt64Arg extracts a numeric argument as int64. JSON numbers arrive
// as float64; whole-number strings are not accepted.
func GetInt64Arg(args map[string]interface{}, name string) (int64, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%s is required", name)
	}
	f, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return int64(f), nil
}

// GetOptionalInt64Arg is like GetInt64Arg but returns (0, false, nil)
// when the argument is absent.
func GetOptionalInt64Arg(args map[string]interface{}, name string) (int64, bool, error) {
	if _, ok := args[name]; !ok {
		return 0, false, nil
	}
	v, err := GetInt64Arg(args, name)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// GetStringArg extracts a required string argument.
func GetStringArg(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}
