// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"unit-lookup/internal/bot"
	"unit-lookup/internal/common/config"
	"unit-lookup/internal/common/logger"
	"unit-lookup/internal/httpapi"
	"unit-lookup/internal/records"
	interpretcode "unit-lookup/internal/workers/lookup/interpret-code"
	matchrecord "unit-lookup/internal/workers/lookup/match-record"
	unitlookup "unit-lookup/internal/workers/lookup/unit-lookup"
	"unit-lookup/pkg/registry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unitsCSV = "Tipo Vivienda,Torre,Apartamento,Propietario,Saldo,Estado,Placa del Carro,Placa Moto\n" +
	"torre,1,101,Jane Doe,0,V,ABC123,\n" +
	"torre,2,101,John Roe,150000,R,,XYZ12A\n" +
	"casa,,90,Casa Owner,,A,HMN835,\n"

// recordingSender collects bot replies.
type recordingSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (s *recordingSender) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	for i, m := range s.sent {
		out[i] = m.Text
	}
	return out
}

type stack struct {
	server *httptest.Server
	sender *recordingSender
	csv    string
}

func setupStack(t *testing.T) *stack {
	t.Helper()
	log := logger.NewTestLogger(t)

	csvPath := filepath.Join(t.TempDir(), "units.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(unitsCSV), 0o600))

	cfg := &config.Config{Store: config.StoreConfig{Type: config.StoreCSV, CSV: config.FileConfig{Path: csvPath}}}
	src, err := records.Open(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	lookup := unitlookup.NewHandler(unitlookup.LoadConfig(), src, log, nil)
	receiver := bot.NewWebhookReceiver(8, log)
	sender := &recordingSender{}
	b := bot.New(config.TelegramConfig{ReplyTimeout: 5000}, matchrecord.DefaultLayout(), sender, lookup, nil, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx, receiver.Updates())
	}()

	server := httptest.NewServer(httpapi.NewRouter(httpapi.Deps{
		Lookup:           lookup,
		Interpreter:      interpretcode.NewHandler(interpretcode.LoadConfig(), log),
		Registry:         registry.Default(),
		Source:           src,
		ReadyChecksStore: true,
		Webhook:          receiver,
		WebhookPath:      "/telegram/webhook",
		Logger:           log,
	}))
	t.Cleanup(func() {
		server.Close()
		cancel()
		<-done
	})

	return &stack{server: server, sender: sender, csv: csvPath}
}

func (s *stack) postLookup(t *testing.T, text string) unitlookup.Output {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"text": text})
	resp, err := http.Post(s.server.URL+"/api/v1/lookup", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out unitlookup.Output
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestE2E_LookupOverHTTP(t *testing.T) {
	s := setupStack(t)

	out := s.postLookup(t, "1101")
	assert.Equal(t, unitlookup.StatusFound, out.Status)
	require.NotNil(t, out.Summary)
	assert.Equal(t, "Jane Doe", out.Summary.Owner)
	assert.Equal(t, "Normal", out.Summary.Status.Label)
	assert.Equal(t, "ABC123", out.Summary.CarPlate)
	assert.Equal(t, 3, out.RecordsScanned)

	out = s.postLookup(t, "2 101")
	assert.Equal(t, "John Roe", out.Summary.Owner)
	assert.Equal(t, "XYZ12A", out.Summary.MotoPlate)

	out = s.postLookup(t, "c90")
	assert.Equal(t, "Casa Owner", out.Summary.Owner)

	assert.Equal(t, unitlookup.StatusNotFound, s.postLookup(t, "1102").Status)
	assert.Equal(t, unitlookup.StatusInvalid, s.postLookup(t, "T0101").Status)
}

func TestE2E_StoreEditsAreVisibleImmediately(t *testing.T) {
	s := setupStack(t)
	assert.Equal(t, unitlookup.StatusNotFound, s.postLookup(t, "3101").Status)

	require.NoError(t, os.WriteFile(s.csv, []byte(unitsCSV+"torre,3,101,Late Owner,,,,\n"), 0o600))
	out := s.postLookup(t, "3101")
	assert.Equal(t, unitlookup.StatusFound, out.Status)
	assert.Equal(t, "Late Owner", out.Summary.Owner)
}

func TestE2E_ReadyTracksStore(t *testing.T) {
	s := setupStack(t)

	resp, err := http.Get(s.server.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, os.Remove(s.csv))
	resp, err = http.Get(s.server.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	body, _ := json.Marshal(map[string]string{"text": "1101"})
	resp, err = http.Post(s.server.URL+"/api/v1/lookup", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestE2E_TelegramWebhook(t *testing.T) {
	s := setupStack(t)

	post := func(id int, text string) {
		update := map[string]interface{}{
			"update_id": id,
			"message": map[string]interface{}{
				"message_id": id,
				"text":       text,
				"chat":       map[string]interface{}{"id": 42, "type": "private"},
			},
		}
		body, _ := json.Marshal(update)
		resp, err := http.Post(s.server.URL+"/telegram/webhook", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	post(1, "1101")
	post(2, "HMN835")
	post(3, "ZZZ999")
	post(4, "hola")

	require.Eventually(t, func() bool { return len(s.sender.texts()) == 4 }, 3*time.Second, 10*time.Millisecond)

	texts := s.sender.texts()
	assert.Contains(t, texts[0], "👤 *Propietario:* Jane Doe")
	assert.Contains(t, texts[1], "🚗 *Placa:* HMN835")
	assert.Contains(t, texts[1], "🏠 *Casa:* 90")
	assert.Equal(t, "❌ Placa no encontrada.", texts[2])
	assert.Contains(t, texts[3], "❌ Formato inválido.")
}
