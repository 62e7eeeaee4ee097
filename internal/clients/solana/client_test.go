package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newRPCServer(t *testing.T, handler func(method string, params []any) (string, string)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JSONRPC string `json:"jsonrpc"`
			Method  string `json:"method"`
			Params  []any  `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad rpc request: %v", err)
		}
		if req.JSONRPC != "2.0" {
			t.Errorf("unexpected jsonrpc version %q", req.JSONRPC)
		}

		result, rpcErr := handler(req.Method, req.Params)
		if rpcErr != "" {
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":` + rpcErr + `}`))
			return
		}
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":` + result + `}`))
	}))
}

func TestClient_GetBalance(t *testing.T) {
	server := newRPCServer(t, func(method string, params []any) (string, string) {
		if method != "getBalance" {
			t.Errorf("unexpected method %q", method)
		}
		if len(params) != 1 || params[0] != "SomeAddress" {
			t.Errorf("unexpected params %v", params)
		}
		return `{"context":{"slot":1},"value":1500000000}`, ""
	})
	defer server.Close()

	client := NewClient(server.URL, "devnet", 5*time.Second)
	balance, err := client.GetBalance(context.Background(), "SomeAddress")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance != 1_500_000_000 {
		t.Errorf("got balance %d", balance)
	}
}

func TestClient_GetLatestBlockhash(t *testing.T) {
	server := newRPCServer(t, func(method string, params []any) (string, string) {
		if method != "getLatestBlockhash" {
			t.Errorf("unexpected method %q", method)
		}
		return `{"context":{"slot":1},"value":{"blockhash":"EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N","lastValidBlockHeight":100}}`, ""
	})
	defer server.Close()

	client := NewClient(server.URL, "devnet", 5*time.Second)
	blockhash, err := client.GetLatestBlockhash(context.Background())
	if err != nil {
		t.Fatalf("GetLatestBlockhash failed: %v", err)
	}
	if blockhash != "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N" {
		t.Errorf("got blockhash %q", blockhash)
	}
}

func TestClient_SendTransaction(t *testing.T) {
	raw := []byte{1, 2, 3, 4}
	server := newRPCServer(t, func(method string, params []any) (string, string) {
		if method != "sendTransaction" {
			t.Errorf("unexpected method %q", method)
		}
		if len(params) != 2 {
			t.Fatalf("expected 2 params, got %d", len(params))
		}
		encoded, ok := params[0].(string)
		if !ok || encoded != base64.StdEncoding.EncodeToString(raw) {
			t.Errorf("transaction should travel base64-encoded, got %v", params[0])
		}
		opts, ok := params[1].(map[string]any)
		if !ok || opts["encoding"] != "base64" {
			t.Errorf("encoding option missing, got %v", params[1])
		}
		return `"5sigSignature"`, ""
	})
	defer server.Close()

	client := NewClient(server.URL, "devnet", 5*time.Second)
	signature, err := client.SendTransaction(context.Background(), raw)
	if err != nil {
		t.Fatalf("SendTransaction failed: %v", err)
	}
	if signature != "5sigSignature" {
		t.Errorf("got signature %q", signature)
	}
}

func TestClient_RPCError(t *testing.T) {
	server := newRPCServer(t, func(method string, params []any) (string, string) {
		return "", `{"code":-32602,"message":"invalid params"}`
	})
	defer server.Close()

	client := NewClient(server.URL, "devnet", 5*time.Second)
	_, err := client.GetBalance(context.Background(), "SomeAddress")
	if err == nil {
		t.Fatal("expected rpc error")
	}
	if !strings.Contains(err.Error(), "invalid params") {
		t.Errorf("rpc message should surface, got: %v", err)
	}
}

func TestClient_Health(t *testing.T) {
	healthy := newRPCServer(t, func(method string, params []any) (string, string) {
		return `"ok"`, ""
	})
	defer healthy.Close()

	client := NewClient(healthy.URL, "devnet", 5*time.Second)
	if !client.Health(context.Background()) {
		t.Error("expected healthy")
	}

	sick := newRPCServer(t, func(method string, params []any) (string, string) {
		return "", `{"code":-32005,"message":"node is behind"}`
	})
	defer sick.Close()

	client = NewClient(sick.URL, "devnet", 5*time.Second)
	if client.Health(context.Background()) {
		t.Error("expected unhealthy")
	}

	client = NewClient("http://127.0.0.1:1", "devnet", time.Second)
	if client.Health(context.Background()) {
		t.Error("expected unhealthy against a closed port")
	}
}

func TestClient_ExplorerURL(t *testing.T) {
	devnet := NewClient("http://rpc", "devnet", time.Second)
	if got := devnet.ExplorerURL("5sig"); got != "https://explorer.solana.com/tx/5sig?cluster=devnet" {
		t.Errorf("got %q", got)
	}

	mainnet := NewClient("http://rpc", "mainnet-beta", time.Second)
	if got := mainnet.ExplorerURL("5sig"); got != "https://explorer.solana.com/tx/5sig" {
		t.Errorf("mainnet URL should carry no cluster param, got %q", got)
	}
}
