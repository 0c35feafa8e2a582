// Copyright 2025 Autoeth Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autoeth/tc8verify/pkg/private/serrors"
)

func TestNew(t *testing.T) {
	err := serrors.New("setup failed", "port", 3, "vid", 100)
	assert.Contains(t, err.Error(), "setup failed")
	assert.Contains(t, err.Error(), "port=3")
	assert.Contains(t, err.Error(), "vid=100")
}

func TestWrapUnwraps(t *testing.T) {
	sentinel := serrors.New("link down")
	err := serrors.Wrap("session setup", sentinel, "session", "abc")
	assert.True(t, errors.Is(err, sentinel))
	assert.Contains(t, err.Error(), "session setup")
	assert.Contains(t, err.Error(), "link down")
}

func TestJoin(t *testing.T) {
	testCases := map[string]struct {
		err    error
		cause  error
		expNil bool
	}{
		"both nil":   {expNil: true},
		"err only":   {err: serrors.New("a")},
		"cause only": {cause: serrors.New("b")},
		"both":       {err: serrors.New("a"), cause: serrors.New("b")},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			joined := serrors.Join(tc.err, tc.cause)
			if tc.expNil {
				assert.NoError(t, joined)
				return
			}
			if tc.err != nil {
				assert.True(t, errors.Is(joined, tc.err))
			}
			if tc.cause != nil {
				assert.True(t, errors.Is(joined, tc.cause))
			}
		})
	}
}

func TestListToError(t *testing.T) {
	var errs serrors.List
	assert.NoError(t, errs.ToError())
	errs = append(errs, serrors.New("one"))
	assert.Error(t, errs.ToError())
	errs = append(errs, serrors.New("two"))
	assert.Contains(t, errs.ToError().Error(), "one")
	assert.Contains(t, errs.ToError().Error(), "two")
}
