package config

// Load 加载并绑定指定节的配置到结构体 T
// 这是一个泛型辅助函数，简化了 Configuration.GetSection().Bind() 的调用
func Load[T any](cfg Configuration, section string) (T, error) {
	var t T
	// section 为空时绑定整个配置
	err := cfg.Bind(section, &t)
	return t, err
}
