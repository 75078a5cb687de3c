// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command qbench benchmarks the linkq queue family.
package main

import "os"

func main() {
	if err := cmdRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
