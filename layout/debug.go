package layout

import (
	"encoding/json"
	"os"
)

type debugDoc struct {
	*Result
	Extra map[string]int `json:"extra"`
}

// WriteDebugJSON 将行几何、光标与 TH/HTH 输出为 JSON，便于调试或可视化。画布像素不输出。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(debugDoc{Result: res, Extra: res.Extra()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
