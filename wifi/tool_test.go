package wifi_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shazow/wifiswitch/wifi"
	"github.com/shazow/wifiswitch/wifi/mock"
)

func newTool(b *mock.Backend) *wifi.Tool {
	return &wifi.Tool{
		Config:   b,
		Scanner:  b,
		Status:   b,
		Reloader: b,
		Settle:   -1,
	}
}

func TestToolReadConfig(t *testing.T) {
	b := mock.New()
	b.ActionSleep = 0
	tool := newTool(b)

	networks, err := tool.ReadConfig(context.Background())
	require.NoError(t, err)
	require.Len(t, networks, 4)
	assert.Equal(t, wifi.ModeAP, networks[0].Mode)
	assert.Equal(t, "Omega-ABCD", networks[0].SSID)
	assert.Equal(t, networks, tool.ConfigList())
	assert.Equal(t, []string{"open", "sections wireless", "close"}, b.Calls)
}

func TestToolReadConfigFailures(t *testing.T) {
	b := mock.New()
	b.ActionSleep = 0
	b.OpenError = errors.New("no memory")
	_, err := newTool(b).ReadConfig(context.Background())
	assert.ErrorIs(t, err, wifi.ErrBackendInit)

	b = mock.New()
	b.ActionSleep = 0
	delete(b.Packages, wifi.WirelessPackage)
	_, err = newTool(b).ReadConfig(context.Background())
	assert.ErrorIs(t, err, wifi.ErrLookup)
	assert.Zero(t, b.OpenSessions, "session must be released after a failed lookup")
}

func TestToolCheckConfigured(t *testing.T) {
	b := mock.New()
	b.ActionSleep = 0
	tool := newTool(b)
	ctx := context.Background()

	_, err := tool.CheckConfigured(ctx)
	assert.ErrorIs(t, err, wifi.ErrNoData)

	_, err = tool.Scan(ctx)
	require.NoError(t, err)
	_, err = tool.ReadConfig(ctx)
	require.NoError(t, err)

	matches, err := tool.CheckConfigured(ctx)
	require.NoError(t, err)

	var ssids []string
	for _, m := range matches {
		ssids = append(ssids, m.Configured.SSID)
	}
	// Dunder MiffLAN is configured as psk but advertised as WPA2.
	assert.Equal(t, []string{"HideYoKidsHideYoWiFi", "Unencrypted_Honeypot"}, ssids)
}

func TestToolFailedScanDropsScanList(t *testing.T) {
	b := mock.New()
	b.ActionSleep = 0
	tool := newTool(b)
	ctx := context.Background()

	_, err := tool.Scan(ctx)
	require.NoError(t, err)
	_, err = tool.ReadConfig(ctx)
	require.NoError(t, err)
	matches, err := tool.CheckConfigured(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	b.ScanError = errors.New("radio gone")
	_, err = tool.Scan(ctx)
	require.Error(t, err)
	assert.Empty(t, tool.ScanList())

	matches, err = tool.CheckConfigured(ctx)
	assert.ErrorIs(t, err, wifi.ErrNoData)
	assert.Empty(t, matches)
}

func TestToolFailedReadDropsConfigList(t *testing.T) {
	b := mock.New()
	b.ActionSleep = 0
	tool := newTool(b)
	ctx := context.Background()

	_, err := tool.ReadConfig(ctx)
	require.NoError(t, err)
	require.Len(t, tool.ConfigList(), 4)

	b.OpenError = errors.New("locked")
	_, err = tool.ReadConfig(ctx)
	require.Error(t, err)
	assert.Empty(t, tool.ConfigList())
}

func TestToolRunDisableAP(t *testing.T) {
	b := mock.New()
	b.ActionSleep = 0
	tool := newTool(b)

	enabled := false
	out, err := tool.Run(context.Background(), wifi.Plan{ReadConfig: true, AP: &enabled, Reload: true, Status: true})
	require.NoError(t, err)
	require.NotNil(t, out.AP)
	assert.Equal(t, []string{"default_radio0"}, out.AP.Mutated)
	assert.True(t, out.AP.Committed)
	require.NotNil(t, out.WirelessUp)
	assert.True(t, *out.WirelessUp)
	assert.Equal(t, 1, b.Reloads)

	v, _ := b.Option(wifi.WirelessPackage, "default_radio0", "disabled")
	assert.Equal(t, "1", v)
}

func TestToolRunAggregatesStepErrors(t *testing.T) {
	b := mock.New()
	b.ActionSleep = 0
	b.ScanError = errors.New("radio busy")
	b.StatusError = errors.New("ubus timeout")
	tool := newTool(b)

	enabled := true
	out, err := tool.Run(context.Background(), wifi.Plan{Scan: true, ReadConfig: true, Match: true, STA: &enabled, Status: true})
	require.Error(t, err)

	assert.Equal(t, []wifi.Step{wifi.StepScan, wifi.StepStatus}, wifi.FailedSteps(err))
	assert.Contains(t, err.Error(), "radio busy")
	assert.Contains(t, err.Error(), "ubus timeout")

	// Matching is skipped without a scan, the STA pass still runs.
	assert.Nil(t, out.Matches)
	require.NotNil(t, out.STA)
	assert.Equal(t, []string{"sta_home", "sta_cafe", "sta_office"}, out.STA.Mutated)
}

func TestToolRunSkipsTraversalWithoutConfig(t *testing.T) {
	b := mock.New()
	b.ActionSleep = 0
	b.OpenError = errors.New("no memory")
	tool := newTool(b)

	enabled := true
	out, err := tool.Run(context.Background(), wifi.Plan{ReadConfig: true, AP: &enabled})
	require.Error(t, err)
	assert.ErrorIs(t, err, wifi.ErrBackendInit)
	assert.Equal(t, []wifi.Step{wifi.StepReadConfig}, wifi.FailedSteps(err))
	assert.Nil(t, out.AP)
	assert.Equal(t, []string{"open"}, b.Calls)
}

func TestToolReloadSettleCancel(t *testing.T) {
	b := mock.New()
	b.ActionSleep = 0
	tool := newTool(b)
	tool.Settle = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := tool.Reload(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, b.Reloads)
}

func TestToolMissingBackends(t *testing.T) {
	tool := &wifi.Tool{}
	ctx := context.Background()

	_, err := tool.Scan(ctx)
	assert.ErrorIs(t, err, wifi.ErrBackendInit)
	_, err = tool.SetAllSTAEnabled(ctx, true)
	assert.ErrorIs(t, err, wifi.ErrBackendInit)
	assert.ErrorIs(t, tool.Reload(ctx), wifi.ErrNotSupported)
	_, err = tool.WirelessUp(ctx)
	assert.ErrorIs(t, err, wifi.ErrNotSupported)
}

func TestToolSerializesOperations(t *testing.T) {
	b := mock.New()
	b.ActionSleep = time.Millisecond
	tool := newTool(b)
	ctx := context.Background()
	_, err := tool.ReadConfig(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(enabled bool) {
			defer wg.Done()
			_, _ = tool.SetAllSTAEnabled(ctx, enabled)
		}(i%2 == 0)
	}
	wg.Wait()

	// Sessions never overlap: every open is closed before the next one.
	depth := 0
	for _, c := range b.Calls {
		switch c {
		case "open":
			depth++
			assert.Equal(t, 1, depth, "overlapping sessions: %v", b.Calls)
		case "close":
			depth--
		}
	}
	assert.Zero(t, b.OpenSessions)
}
