// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package models

import "errors"

// ErrInvalidInput marks rejections of malformed pipeline input: an empty
// thread, or a priority-weight configuration that does not sum to 1.0.
// Merely unusual content (empty bodies, no matches) never produces this;
// it degrades to empty derived fields instead.
var ErrInvalidInput = errors.New("invalid input")

// ErrConfiguration marks configuration mistakes surfaced in strict mode,
// such as an unknown option key.
var ErrConfiguration = errors.New("configuration error")
