package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"douvigia/internal/model"
	"douvigia/internal/portaria"
)

type fakeStore struct {
	orders    map[string]*model.OrderRecord
	processed map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:    make(map[string]*model.OrderRecord),
		processed: make(map[string]bool),
	}
}

func (s *fakeStore) SaveOrder(_ context.Context, record *model.OrderRecord) error {
	s.orders[record.OrderID] = record
	return nil
}

func (s *fakeStore) HasOrder(_ context.Context, orderID string) (bool, error) {
	_, ok := s.orders[orderID]
	return ok, nil
}

func (s *fakeStore) ListOrders(_ context.Context, _ int) ([]model.OrderRecord, error) {
	records := make([]model.OrderRecord, 0, len(s.orders))
	for _, record := range s.orders {
		records = append(records, *record)
	}
	return records, nil
}

func (s *fakeStore) MarkArchiveProcessed(_ context.Context, day, url string) error {
	s.processed[day+"|"+url] = true
	return nil
}

func (s *fakeStore) ArchiveProcessed(_ context.Context, day, url string) (bool, error) {
	return s.processed[day+"|"+url], nil
}

func (s *fakeStore) Migrate(context.Context) error { return nil }
func (s *fakeStore) Close() error                  { return nil }

type fakeFetcher struct {
	archives map[string][]byte
	loginErr error
	urls     []string
}

func (f *fakeFetcher) Login(context.Context) error { return f.loginErr }

func (f *fakeFetcher) ListArchives(_ context.Context, _ string, _ []string) ([]string, error) {
	return f.urls, nil
}

func (f *fakeFetcher) DownloadArchive(_ context.Context, url string) ([]byte, error) {
	data, ok := f.archives[url]
	if !ok {
		return nil, fmt.Errorf("no archive at %s", url)
	}
	return data, nil
}

type fakeNotifier struct {
	sendErr error
	sent    []string
}

func (n *fakeNotifier) Send(_ context.Context, text string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sent = append(n.sent, text)
	return nil
}

// orderZip builds a one-matéria edition archive carrying the given
// Portaria number and supplement amount.
func orderZip(t *testing.T, number, amount string) []byte {
	t.Helper()
	fragment := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>`+
		`<article name="Portaria"><body><Texto><![CDATA[`+
		`<p>PORTARIA GM/MPO Nº %s, DE 19 DE AGOSTO DE 2025</p>`+
		`<p>Abre aos Orçamentos Fiscal e da Seguridade Social crédito suplementar para reforço de dotações constantes da Lei Orçamentária vigente.</p>`+
		`<table>`+
		`<tr><td>UNIDADE: 52131 - COMANDO DA MARINHA</td></tr>`+
		`<tr><td>PROGRAMA DE TRABALHO ( SUPLEMENTAÇÃO )</td></tr>`+
		`<tr><td>TOTAL - GERAL %s</td></tr>`+
		`</table>]]></Texto></body></article>`, number, amount)

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entry, err := writer.Create("515_20250819_100.xml")
	require.NoError(t, err)
	_, err = entry.Write([]byte(fragment))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

const testDay = "2025-08-19"

func TestChecker_Run(t *testing.T) {
	store := newFakeStore()
	url := "https://example.test/do1.zip"
	fetcher := &fakeFetcher{
		urls:     []string{url},
		archives: map[string][]byte{url: orderZip(t, "330", "1.500,00")},
	}
	notifier := &fakeNotifier{}

	checker := NewChecker(store, fetcher, notifier, nil, nil)
	summary, err := checker.Run(context.Background(), testDay)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Editions)
	assert.Equal(t, 1, summary.NewEditions)
	assert.Equal(t, 1, summary.OrdersFound)
	assert.Equal(t, 1, summary.Delivered)

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "PORTARIA GM/MPO Nº 330/2025")
	assert.Contains(t, notifier.sent[0], "R$ 1.500,00")

	record, ok := store.orders["330/2025"]
	require.True(t, ok)
	assert.InDelta(t, 1500.0, record.Net, 1e-9)
	assert.Equal(t, url, record.Edition)
}

func TestChecker_Run_SkipsProcessedEditions(t *testing.T) {
	store := newFakeStore()
	url := "https://example.test/do1.zip"
	fetcher := &fakeFetcher{
		urls:     []string{url},
		archives: map[string][]byte{url: orderZip(t, "330", "1.500,00")},
	}
	notifier := &fakeNotifier{}
	checker := NewChecker(store, fetcher, notifier, nil, nil)

	_, err := checker.Run(context.Background(), testDay)
	require.NoError(t, err)

	summary, err := checker.Run(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.NewEditions)
	assert.Len(t, notifier.sent, 1)
}

func TestChecker_Run_SkipsSeenOrders(t *testing.T) {
	store := newFakeStore()
	store.orders["330/2025"] = &model.OrderRecord{OrderID: "330/2025"}

	url := "https://example.test/do1-extra.zip"
	fetcher := &fakeFetcher{
		urls:     []string{url},
		archives: map[string][]byte{url: orderZip(t, "330", "1.500,00")},
	}
	notifier := &fakeNotifier{}
	checker := NewChecker(store, fetcher, notifier, nil, nil)

	summary, err := checker.Run(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Delivered)
	assert.Empty(t, notifier.sent)
}

func TestChecker_Run_RedeliversUnresolvedOrders(t *testing.T) {
	store := newFakeStore()
	store.orders[portaria.UnresolvedOrderID] = &model.OrderRecord{OrderID: portaria.UnresolvedOrderID}

	// An order whose header never resolves: no Portaria id anywhere.
	fragment := []byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<article name="Despacho"><body><Texto><![CDATA[` +
		`<table>` +
		`<tr><td>UNIDADE: 52131 - COMANDO DA MARINHA</td></tr>` +
		`<tr><td>PROGRAMA DE TRABALHO ( SUPLEMENTAÇÃO )</td></tr>` +
		`<tr><td>TOTAL - GERAL 10,00</td></tr>` +
		`</table>]]></Texto></body></article>`)
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entry, err := writer.Create("515_20250819_200.xml")
	require.NoError(t, err)
	_, err = entry.Write(fragment)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	url := "https://example.test/do1.zip"
	fetcher := &fakeFetcher{
		urls:     []string{url},
		archives: map[string][]byte{url: buf.Bytes()},
	}
	notifier := &fakeNotifier{}
	checker := NewChecker(store, fetcher, notifier, nil, nil)

	summary, err := checker.Run(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Delivered)
	require.Len(t, notifier.sent, 1)
}

func TestChecker_Run_DeliveryFailureRetriesEdition(t *testing.T) {
	store := newFakeStore()
	url := "https://example.test/do1.zip"
	fetcher := &fakeFetcher{
		urls:     []string{url},
		archives: map[string][]byte{url: orderZip(t, "330", "1.500,00")},
	}
	notifier := &fakeNotifier{sendErr: errors.New("bot down")}
	checker := NewChecker(store, fetcher, notifier, nil, nil)

	summary, err := checker.Run(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Delivered)

	processed, err := store.ArchiveProcessed(context.Background(), testDay, url)
	require.NoError(t, err)
	assert.False(t, processed, "failed edition must stay unmarked")

	// Next pass with a healthy notifier picks the edition back up.
	notifier.sendErr = nil
	summary, err = checker.Run(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Delivered)
}

func TestChecker_Run_LoginFailure(t *testing.T) {
	fetcher := &fakeFetcher{loginErr: errors.New("bad credentials")}
	checker := NewChecker(newFakeStore(), fetcher, &fakeNotifier{}, nil, nil)

	_, err := checker.Run(context.Background(), testDay)
	require.Error(t, err)
}
