package fonts

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// BuiltinPrefix 标记内置字体，例如 "builtin:go-regular"。
	BuiltinPrefix = "builtin:"

	Regular = BuiltinPrefix + "go-regular"
	Bold    = BuiltinPrefix + "go-bold"
	Mono    = BuiltinPrefix + "go-mono"

	// Default 是模板未指定字体时使用的字体。
	Default = Regular
)

var builtin = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-bold":    gobold.TTF,
	"go-mono":    gomono.TTF,
}

// Names 返回全部内置字体名称（带前缀）。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, BuiltinPrefix+name)
	}
	sort.Strings(out)
	return out
}

// IsBuiltin 判断 src 是否指向内置字体。
func IsBuiltin(src string) bool {
	_, ok := builtin[strings.TrimPrefix(src, BuiltinPrefix)]
	return strings.HasPrefix(src, BuiltinPrefix) && ok
}

// Load 返回字体数据。src 可写为 "builtin:go-regular" 之类的内置名称，或 TTF/OTF 文件路径；
// 空字符串返回默认字体。
func Load(src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		src = Default
	}
	if strings.HasPrefix(src, BuiltinPrefix) {
		name := strings.TrimPrefix(src, BuiltinPrefix)
		data, ok := builtin[name]
		if !ok {
			return nil, fmt.Errorf("未知的内置字体：%s", name)
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}
