package model

// All 按依赖顺序列出全部表模型，供 AutoMigrate 使用
func All() []any {
	return []any{&User{}, &Post{}, &Comment{}, &Like{}}
}

// Bool 返回 v 的指针，用于显式写入 false 等零值
func Bool(v bool) *bool { return &v }
