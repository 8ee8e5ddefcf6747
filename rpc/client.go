package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	tmjson "github.com/cometbft/cometbft/libs/json"
	jsonrpc "github.com/cometbft/cometbft/rpc/jsonrpc/client"
	types "github.com/cometbft/cometbft/rpc/jsonrpc/types"
)

func argsToURLValues(args map[string]interface{}) (url.Values, error) {
	values := make(url.Values)
	if len(args) == 0 {
		return values, nil
	}

	err := argsToJSON(args)
	if err != nil {
		return nil, err
	}

	for key, val := range args {
		values.Set(key, val.(string))
	}

	return values, nil
}

func argsToJSON(args map[string]interface{}) error {
	for k, v := range args {
		rt := reflect.TypeOf(v)
		isByteSlice := rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.Uint8
		if isByteSlice {
			bytes := reflect.ValueOf(v).Bytes()
			args[k] = fmt.Sprintf("0x%X", bytes)
			continue
		}

		data, err := tmjson.Marshal(v)
		if err != nil {
			return err
		}
		args[k] = string(data)
	}
	return nil
}

// URIClient calls the Tendermint RPC over its GET/URI transport.
type URIClient struct {
	Address   string
	Requester *chain.Requester
}

// DoHTTPGet issues GET <Address>/<method>?<params> and decodes the JSON-RPC
// result into result with tmjson. JSON-RPC errors come back as RequestErrors
// with Kind ErrNotFound when the node reports a missing object.
func (c *URIClient) DoHTTPGet(ctx context.Context, method string, params map[string]interface{}, result interface{}) error {
	values, err := argsToURLValues(params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}

	requestEndpoint := "/" + method
	u := c.Address + requestEndpoint
	if len(values) > 0 {
		u = u + "?" + values.Encode()
	}

	body, httpErr := c.Requester.Do(ctx, requestEndpoint, http.MethodGet, u, nil)
	if httpErr != nil && !bytes.Contains(body, []byte(`"jsonrpc"`)) {
		return httpErr
	}

	raw, err := decodeEnvelope(requestEndpoint, body, jsonrpc.URIClientRequestID)
	if err != nil {
		return withStatus(err, httpErr)
	}
	if httpErr != nil {
		return httpErr
	}

	if err := tmjson.Unmarshal(raw, result); err != nil {
		return &chain.RequestError{Endpoint: requestEndpoint, Kind: chain.ErrMalformedResponse, Cause: fmt.Errorf("error unmarshalling result: %w", err)}
	}
	return nil
}

// decodeEnvelope validates a JSON-RPC 2.0 response and returns its raw result.
func decodeEnvelope(requestEndpoint string, responseBytes []byte, expectedID types.JSONRPCIntID) (json.RawMessage, error) {
	response := &types.RPCResponse{}
	if err := json.Unmarshal(responseBytes, response); err != nil {
		return nil, &chain.RequestError{Endpoint: requestEndpoint, Kind: chain.ErrMalformedResponse, Cause: fmt.Errorf("error unmarshalling: %w", err)}
	}

	if response.Error != nil {
		kind := chain.ErrEndpointUnavailable
		if isNotFoundMessage(response.Error) {
			kind = chain.ErrNotFound
		}
		return nil, &chain.RequestError{Endpoint: requestEndpoint, Kind: kind, Cause: response.Error}
	}

	if err := validateAndVerifyID(response, expectedID); err != nil {
		return nil, &chain.RequestError{Endpoint: requestEndpoint, Kind: chain.ErrMalformedResponse, Cause: fmt.Errorf("wrong ID: %w", err)}
	}

	return response.Result, nil
}

func isNotFoundMessage(rpcErr *types.RPCError) bool {
	msg := strings.ToLower(rpcErr.Message + " " + rpcErr.Data)
	return strings.Contains(msg, "not found")
}

func withStatus(err error, httpErr error) error {
	var reqErr *chain.RequestError
	if httpErr == nil || !errors.As(err, &reqErr) {
		return err
	}
	reqErr.StatusCode = chain.StatusCodeOf(httpErr)
	return reqErr
}

func rpcErrorOf(err error) (*types.RPCError, bool) {
	var rpcErr *types.RPCError
	ok := errors.As(err, &rpcErr)
	return rpcErr, ok
}

// isHeightUnavailable matches the node's answer for heights past the tip or
// below the pruning horizon.
func isHeightUnavailable(err error) bool {
	rpcErr, ok := rpcErrorOf(err)
	if !ok {
		return false
	}
	msg := strings.ToLower(rpcErr.Message + " " + rpcErr.Data)
	return strings.Contains(msg, "must be less than or equal to the current blockchain height") ||
		strings.Contains(msg, "is not available, lowest height is")
}

func validateAndVerifyID(res *types.RPCResponse, expectedID types.JSONRPCIntID) error {
	if err := validateResponseID(res.ID); err != nil {
		return err
	}
	if expectedID != res.ID.(types.JSONRPCIntID) { // validateResponseID ensured res.ID has the right type
		return fmt.Errorf("response ID (%d) does not match request ID (%d)", res.ID, expectedID)
	}
	return nil
}

func validateResponseID(id interface{}) error {
	if id == nil {
		return errors.New("no ID")
	}
	_, ok := id.(types.JSONRPCIntID)
	if !ok {
		return fmt.Errorf("expected JSONRPCIntID, but got: %T", id)
	}
	return nil
}
