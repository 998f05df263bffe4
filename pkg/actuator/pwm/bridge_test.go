//go:build !tinygo

package pwm

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/spider/pkg/robot"
)

type bufCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufCloser) Close() error {
	b.closed = true
	return nil
}

func TestBridgeDriver(t *testing.T) {
	buf := &bufCloser{}
	d := NewBridgeDriver(buf)
	p := newTestPort(t, d)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, robot.NumJoints)
	assert.Equal(t, "freq 0 50", lines[0])
	assert.Equal(t, "freq 11 50", lines[11])

	buf.Reset()
	require.NoError(t, p.Write(context.Background(), robot.DefaultLayout().Zero()))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, robot.NumJoints)
	assert.Equal(t, "duty 0 5000", lines[0])

	require.NoError(t, d.Close())
	assert.True(t, buf.closed)
}
