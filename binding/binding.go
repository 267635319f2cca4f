package binding

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	exprPattern    = regexp.MustCompile(`\$\{([^}]+)\}`)
	segmentPattern = regexp.MustCompile(`([^.\[\]]+)|\[(\d+)\]`)
)

// span 记录一次替换：模板中 [from, from+oldLen) 的字符被替换为 newLen 个字符。
type span struct {
	from   int
	oldLen int
	newLen int
}

// OffsetMap 把模板中的字符偏移映射到插值后的文本偏移。
type OffsetMap struct {
	spans []span
}

// Map 返回模板偏移 pos 在插值结果中的位置。落在占位符内部的偏移映射到替换文本的起点。
func (m *OffsetMap) Map(pos int) int {
	if m == nil {
		return pos
	}
	delta := 0
	for _, s := range m.spans {
		if pos < s.from {
			break
		}
		if pos < s.from+s.oldLen {
			return s.from + delta
		}
		delta += s.newLen - s.oldLen
	}
	return pos + delta
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	out, _ := InterpolateMapped(text, data)
	return out
}

// InterpolateMapped 与 Interpolate 相同，同时返回偏移映射，
// 使针对模板编写的样式变更位置与光标可以换算到插值后的文本上。
func InterpolateMapped(text string, data any) (string, *OffsetMap) {
	m := &OffsetMap{}
	if data == nil {
		return text, m
	}
	matches := exprPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, m
	}

	var b strings.Builder
	last := 0
	for _, loc := range matches {
		path := strings.TrimSpace(text[loc[2]:loc[3]])
		val, ok := resolvePath(data, path)
		if path == "" || !ok {
			continue
		}
		repl := fmt.Sprint(val)
		b.WriteString(text[last:loc[0]])
		m.spans = append(m.spans, span{
			from:   utf8.RuneCountInString(text[:loc[0]]),
			oldLen: utf8.RuneCountInString(text[loc[0]:loc[1]]),
			newLen: utf8.RuneCountInString(repl),
		})
		b.WriteString(repl)
		last = loc[1]
	}
	b.WriteString(text[last:])
	sort.Slice(m.spans, func(i, j int) bool { return m.spans[i].from < m.spans[j].from })
	return b.String(), m
}

// resolvePath 沿 a.b[0].c 形式的路径在 map/slice 结构中取值。
func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, seg := range segmentPattern.FindAllStringSubmatch(path, -1) {
		switch {
		case seg[1] != "":
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			if current, ok = obj[seg[1]]; !ok {
				return nil, false
			}
		case seg[2] != "":
			idx, err := strconv.Atoi(seg[2])
			arr, ok := current.([]any)
			if err != nil || !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}
