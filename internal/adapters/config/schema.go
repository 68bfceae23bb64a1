package config

// recipeDTO is the YAML shape of a recipe file.
type recipeDTO struct {
	Name    string    `yaml:"pname"`
	Version string    `yaml:"version"`
	Source  sourceDTO `yaml:"source"`

	NativeBuildInputs []string `yaml:"nativeBuildInputs"`
	BuildInputs       []string `yaml:"buildInputs"`

	ConfigureScript string   `yaml:"configureScript"`
	ConfigureFlags  []string `yaml:"configureFlags"`
	Build           []string `yaml:"build"`
	Install         []string `yaml:"install"`

	Check checkDTO `yaml:"check"`
	Meta  metaDTO  `yaml:"meta"`
}

type sourceDTO struct {
	Host  string `yaml:"host"`
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
	Rev   string `yaml:"rev"`
	Hash  string `yaml:"hash"`
}

type checkDTO struct {
	Enable    bool     `yaml:"enable"`
	Target    []string `yaml:"target"`
	PreCheck  []string `yaml:"preCheck"`
	PostCheck []string `yaml:"postCheck"`
	Reason    string   `yaml:"reason"`
}

type metaDTO struct {
	Homepage    string          `yaml:"homepage"`
	Description string          `yaml:"description"`
	License     string          `yaml:"license"`
	Platforms   []string        `yaml:"platforms"`
	Maintainers []maintainerDTO `yaml:"maintainers"`
}

type maintainerDTO struct {
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	GitHub string `yaml:"github"`
}
