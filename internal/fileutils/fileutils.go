// Copyright 2020 Celo Org
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

package fileutils

import (
	"fmt"
	"os"
	"strings"
)

func FileExists(filepath string) bool {
	_, err := os.Stat(filepath)
	return err == nil || !os.IsNotExist(err)
}

// IsEmpty reports whether the file at filepath has no content.
func IsEmpty(filepath string) (bool, error) {
	stat, err := os.Stat(filepath)
	if err != nil {
		return false, err
	}
	return stat.Size() == 0, nil
}

// ReadSecret reads a single secret line such as a mnemonic, trimming
// surrounding whitespace. Files readable by group or others are refused.
func ReadSecret(filepath string) (string, error) {
	stat, err := os.Stat(filepath)
	if err != nil {
		return "", err
	}
	if !stat.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", filepath)
	}
	if stat.Mode().Perm()&0o077 != 0 {
		return "", fmt.Errorf("%s is accessible by other users (mode %v)", filepath, stat.Mode().Perm())
	}
	content, err := os.ReadFile(filepath)
	if err != nil {
		return "", err
	}
	secret := strings.TrimSpace(string(content))
	if secret == "" {
		return "", fmt.Errorf("%s is empty", filepath)
	}
	return secret, nil
}
