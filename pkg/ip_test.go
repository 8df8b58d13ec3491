package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPIsLocal(t *testing.T) {
	cases := []struct {
		addr            string
		expectedIsLocal bool
	}{
		{addr: "127.0.0.1:35325", expectedIsLocal: true},
		{addr: "127.23.0.1:35325", expectedIsLocal: false},
		{addr: "172.20.0.1:60102", expectedIsLocal: true},
		{addr: "172.200.0.1:60096", expectedIsLocal: true},
		{addr: "172.0.0.1:42452", expectedIsLocal: true},
		{addr: "83.12.53.65:2145", expectedIsLocal: false},
		{addr: "111.12.56.65:8080", expectedIsLocal: false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expectedIsLocal, IPIsLocal(tc.addr), tc.addr)
	}
}

func TestReadUserIP(t *testing.T) {
	t.Run("x-real-ip-wins", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Real-Ip", "83.12.53.65")
		req.Header.Set("X-Forwarded-For", "10.0.0.1")
		req.RemoteAddr = "10.0.0.2:1234"

		ip, err := ReadUserIP(req)
		require.NoError(t, err)
		assert.Equal(t, "83.12.53.65", ip)
	})

	t.Run("forwarded-for-fallback", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Forwarded-For", "83.12.53.65")
		req.RemoteAddr = "10.0.0.2:1234"

		ip, err := ReadUserIP(req)
		require.NoError(t, err)
		assert.Equal(t, "83.12.53.65", ip)
	})

	t.Run("remote-addr-with-port", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "83.12.53.65:2145"

		ip, err := ReadUserIP(req)
		require.NoError(t, err)
		assert.Equal(t, "83.12.53.65", ip)
	})

	t.Run("local-addr", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "127.0.0.1:2145"

		ip, err := ReadUserIP(req)
		require.NoError(t, err)
		assert.Equal(t, "localhost", ip)
	})

	t.Run("invalid-addr", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "not-an-ip"

		_, err := ReadUserIP(req)
		assert.Error(t, err)
	})
}
