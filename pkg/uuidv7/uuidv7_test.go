// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuidv7_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-reader/pkg/uuidv7"
)

/*
TestNew_Unique generates distinct ids in a tight loop.
*/
func TestNew_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		id := uuidv7.New()
		assert.True(t, uuidv7.Valid(id))
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1000)
	assert.False(t, uuidv7.Valid("1712345678901"))
}
