package main

import (
	"context"
	"strings"
	"testing"

	"github.com/fkcurrie/ledscroll-golang/internal/message"
	"github.com/fkcurrie/ledscroll-golang/pkg/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMessages(t *testing.T) {
	inbox := message.NewMailbox(4)
	readMessages(context.Background(), strings.NewReader("Hi\nbad€\n中文\n"), inbox)

	var q message.Queue
	p, ok := inbox.Poll()
	require.True(t, ok)
	q.Load(p)
	assert.Equal(t, []font.Code{0xA3C8, 0xA3E9}, q.Codes())

	p, ok = inbox.Poll()
	require.True(t, ok, "rejected lines are skipped")
	q.Load(p)
	assert.Equal(t, []font.Code{0xD6D0, 0xCEC4}, q.Codes())

	_, ok = inbox.Poll()
	assert.False(t, ok)
}
