package timeutil_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rohmanhakim/site-parser/pkg/timeutil"
)

func TestBackoffParam_Delay(t *testing.T) {
	param := timeutil.NewBackoffParam(0.5, 30*time.Second)

	assert.Equal(t, 500*time.Millisecond, param.Delay(1))
	assert.Equal(t, 1*time.Second, param.Delay(2))
	assert.Equal(t, 2*time.Second, param.Delay(3))
	assert.Equal(t, 4*time.Second, param.Delay(4))
}

func TestBackoffParam_DelayCapped(t *testing.T) {
	param := timeutil.NewBackoffParam(1.0, 5*time.Second)

	assert.Equal(t, 4*time.Second, param.Delay(3))
	assert.Equal(t, 5*time.Second, param.Delay(4))
	assert.Equal(t, 5*time.Second, param.Delay(10))
}

func TestBackoffParam_DelayEdgeCases(t *testing.T) {
	param := timeutil.NewBackoffParam(0.5, 30*time.Second)
	assert.Equal(t, time.Duration(0), param.Delay(0))

	zero := timeutil.NewBackoffParam(0, 30*time.Second)
	assert.Equal(t, time.Duration(0), zero.Delay(3))
}
