// Copyright 2026 The LUCI Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errs

// Stage identifies the pipeline stage an error came from.
//
// A stage is a tag on the error chain: it doesn't change the message, and
// errors.Is and errors.As see through it.
type Stage string

const (
	StageUnknown    Stage = ""
	StageCredential Stage = "credential"
	StageChannel    Stage = "channel"
	StageRequest    Stage = "request"
	StageRPC        Stage = "rpc"
	StageDecode     Stage = "decode"
)

type stageError struct {
	stage Stage
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// InStage attaches the stage to the error.
//
// Returns nil if err is nil. The innermost stage wins if an error is tagged
// more than once.
func InStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &stageError{stage: stage, err: err}
}

// StageOf returns the innermost stage attached to the error, or StageUnknown.
//
// Errors wrapping several errors (e.g. fmt.Errorf with many %w) are searched
// in order, and the first tagged branch decides.
func StageOf(err error) Stage {
	stage, _ := collectStage(err)
	return stage
}

func collectStage(err error) (Stage, bool) {
	if err == nil {
		return StageUnknown, false
	}

	// Tags further down the tree are more specific than ours.
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			if stage, ok := collectStage(inner); ok {
				return stage, true
			}
		}
	case interface{ Unwrap() error }:
		if stage, ok := collectStage(x.Unwrap()); ok {
			return stage, true
		}
	}

	if se, ok := err.(*stageError); ok {
		return se.stage, true
	}
	return StageUnknown, false
}
