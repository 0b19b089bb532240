package cmd

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/pulse"
	"github.com/etnz/pulse/config"
	"github.com/etnz/pulse/fakeapi"
	"github.com/etnz/pulse/renderer"
	"go.uber.org/zap"
)

func setupFake(t *testing.T) (*fakeapi.Server, *pulse.API) {
	t.Helper()
	fake := fakeapi.New(zap.NewNop())
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return fake, pulse.NewAPI(srv.URL, 5*time.Second, zap.NewNop())
}

func TestTestConnections(t *testing.T) {
	nord := pulse.Credentials{Email: "ana@example.com", Password: "secret"}

	fake, api := setupFake(t)
	fake.Accept(pulse.PathTestNord, nord)

	creds := config.CredentialsConfig{
		Nord:    nord,
		Levante: pulse.Credentials{Email: "ana@example.com", Password: "wrong"},
	}
	results, preview, err := testConnections(context.Background(), api, creds, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("testConnections() failed: %v", err)
	}
	want := []renderer.ConnectionResult{
		{Name: "Nord Research", OK: true, Message: "Login na Nord Research realizado com sucesso!"},
		{Name: "Levante Ideias", OK: false, Message: "Falha no login na Levante Ideias"},
		{Name: "Planilha Excel", OK: true, Message: "Planilha 'Posições' lida com sucesso!"},
	}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d: %+v", len(results), len(want), results)
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("result[%d] = %+v, want %+v", i, results[i], want[i])
		}
	}
	if preview == nil || len(preview.Columns) == 0 {
		t.Errorf("preview = %+v, want the spreadsheet columns", preview)
	}
}

func TestTestConnections_MissingCredentials(t *testing.T) {
	fake, api := setupFake(t)

	_, _, err := testConnections(context.Background(), api, config.CredentialsConfig{}, []string{targetExcel, targetLevante}, zap.NewNop())
	if !errors.Is(err, errMissingCredentials) {
		t.Fatalf("testConnections() error = %v, want errMissingCredentials", err)
	}
	for _, p := range []string{pulse.PathTestExcel, pulse.PathTestLevante} {
		if n := fake.Hits(p); n != 0 {
			t.Errorf("%s got %d requests, want none", p, n)
		}
	}
}

func TestTestConnections_Unconfigured(t *testing.T) {
	fake, api := setupFake(t)

	results, _, err := testConnections(context.Background(), api, config.CredentialsConfig{}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("testConnections() failed: %v", err)
	}
	for _, r := range results[:2] {
		if r.OK || r.Message != "credenciais não configuradas" {
			t.Errorf("%s = %+v, want not configured", r.Name, r)
		}
	}
	if n := fake.Hits(pulse.PathTestNord); n != 0 {
		t.Errorf("nord got %d requests, want none", n)
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"http", &pulse.HTTPError{StatusCode: 401, Message: "Falha no login"}, "Falha no login"},
		{"business", &pulse.BusinessError{Message: "Planilha vazia"}, "Planilha vazia"},
		{"http without message", &pulse.HTTPError{StatusCode: 502}, "servidor indisponível"},
		{"transport", &pulse.TransportError{Err: context.DeadlineExceeded}, "servidor indisponível"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reason(tt.err); got != tt.want {
				t.Errorf("reason() = %q, want %q", got, tt.want)
			}
		})
	}
}
