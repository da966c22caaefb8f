package conf

// Bootstrap 展示服务配置
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Radar  *Radar  `json:"radar"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

type Data struct {
	Database *Database `json:"database"`
}

type Database struct {
	Driver       string `json:"driver"`
	Source       string `json:"source"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// Radar 批处理引擎配置，Config 指向 celebrity_radar 的 YAML 配置文件
type Radar struct {
	Config string `json:"config"`
}
