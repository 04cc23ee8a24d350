package repo

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 用户输入按字面量匹配（postgres 默认转义符为 \）
func escapeLike(s string) string { return likeEscaper.Replace(s) }
