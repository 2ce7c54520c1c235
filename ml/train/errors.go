/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package train

import "github.com/pkg/errors"

// Errors for training inputs that don't fit together. They are returned wrapped with more
// context: test for them with errors.Is.
var (
	// ErrExampleCountMismatch is returned when inputs and labels have a different number of examples.
	ErrExampleCountMismatch = errors.New("number of examples in inputs and labels differ")

	// ErrBatchTooLarge is returned when the batch size is larger than the number of examples.
	ErrBatchTooLarge = errors.New("batch size larger than the number of examples")

	// ErrInvalidBatchSize is returned for batch sizes <= 0.
	ErrInvalidBatchSize = errors.New("batch size must be > 0")
)
