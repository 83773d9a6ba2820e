package helper

import (
	"testing"

	"github.com/LerianStudio/lib-commons/commons/log"
	"go.uber.org/mock/gomock"
)

// NewQuietLogger returns a mock logger that accepts any logging call, for
// tests that assert on behavior rather than log output.
func NewQuietLogger(t *testing.T) log.Logger {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := log.NewMockLogger(ctrl)

	m.EXPECT().Debug(gomock.Any()).AnyTimes()
	m.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
	m.EXPECT().Info(gomock.Any()).AnyTimes()
	m.EXPECT().Infof(gomock.Any(), gomock.Any()).AnyTimes()
	m.EXPECT().Warn(gomock.Any()).AnyTimes()
	m.EXPECT().Warnf(gomock.Any(), gomock.Any()).AnyTimes()
	m.EXPECT().Error(gomock.Any()).AnyTimes()
	m.EXPECT().Errorf(gomock.Any(), gomock.Any()).AnyTimes()

	return m
}
