// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package config resolves the effective git-pm configuration by deep-merging
// built-in defaults, the user-scope config file, and the project-scope config
// file, in that order of increasing precedence.
//
// The resolver never touches the network and never fails because a config
// file is missing: absence at any layer is treated as an empty layer.
package config
