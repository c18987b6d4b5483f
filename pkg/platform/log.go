/*
Copyright © 2022 - 2024 SUSE LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package platform

import (
	"github.com/sirupsen/logrus"

	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// logrusLogger adapts *logrus.Logger to types.Logger, the same shape every
// teacher package logs through (cfg.Logger.Errorf(...)) instead of calling
// a package-level logger directly.
type logrusLogger struct {
	l *logrus.Logger
}

// NewLogrusLogger builds a types.Logger backed by logrus, with level parsed
// from a name like "info" or "debug" (falling back to Info on a bad name).
func NewLogrusLogger(level string) types.Logger {
	l := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return &logrusLogger{l: l}
}

func (g *logrusLogger) Debugf(format string, args ...any) { g.l.Debugf(format, args...) }
func (g *logrusLogger) Infof(format string, args ...any)  { g.l.Infof(format, args...) }
func (g *logrusLogger) Warnf(format string, args ...any)  { g.l.Warnf(format, args...) }
func (g *logrusLogger) Errorf(format string, args ...any) { g.l.Errorf(format, args...) }

var _ types.Logger = (*logrusLogger)(nil)
