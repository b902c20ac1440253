package project

// The on-disk project description. One struct serves all three formats:
//
//	incgraph.toml  [[package]] tables, [discover], [resolution]
//	incgraph.yaml  packages: list, discover:, resolution:
//	incgraph.hcl   package "name" { } blocks, discover { }, resolution { }
type rawProject struct {
	Name    string `toml:"name" yaml:"name" hcl:"name,optional"`
	Version string `toml:"version" yaml:"version" hcl:"version,optional"`
	Root    string `toml:"root" yaml:"root" hcl:"root,optional"` // Relative to the description file

	Packages   []rawPackage   `toml:"package" yaml:"packages" hcl:"package,block"`
	Discover   *rawDiscover   `toml:"discover" yaml:"discover" hcl:"discover,block"`
	Resolution *rawResolution `toml:"resolution" yaml:"resolution" hcl:"resolution,block"`
}

type rawPackage struct {
	Name            string   `toml:"name" yaml:"name" hcl:"name,label"`
	Kind            string   `toml:"kind" yaml:"kind" hcl:"kind,optional"`
	Sources         []string `toml:"sources" yaml:"sources" hcl:"sources,optional"`
	Dirs            []string `toml:"dirs" yaml:"dirs" hcl:"dirs,optional"`
	Generated       []string `toml:"generated" yaml:"generated" hcl:"generated,optional"` // Headers produced at build time
	Recurse         *bool    `toml:"recurse" yaml:"recurse" hcl:"recurse,optional"`
	Root            bool     `toml:"root" yaml:"root" hcl:"root,optional"`
	Optional        bool     `toml:"optional" yaml:"optional" hcl:"optional,optional"`
	OptionalSources []string `toml:"optional_sources" yaml:"optional_sources" hcl:"optional_sources,optional"`
}

type rawDiscover struct {
	AppsRoot string `toml:"apps_root" yaml:"apps_root" hcl:"apps_root,optional"`
	SrcRoot  string `toml:"src_root" yaml:"src_root" hcl:"src_root,optional"`
	Library  string `toml:"library" yaml:"library" hcl:"library,optional"`
}

type rawResolution struct {
	Toolchain        []string        `toml:"toolchain" yaml:"toolchain" hcl:"toolchain,optional"`
	StandardHeaders  bool            `toml:"standard_headers" yaml:"standard_headers" hcl:"standard_headers,optional"`
	ThirdParty       []rawThirdParty `toml:"third_party" yaml:"third_party" hcl:"third_party,block"`
	InternalRoots    []string        `toml:"internal_roots" yaml:"internal_roots" hcl:"internal_roots,optional"`
	AllowUnreachable bool            `toml:"allow_unreachable" yaml:"allow_unreachable" hcl:"allow_unreachable,optional"`
}

type rawThirdParty struct {
	Prefix  string `toml:"prefix" yaml:"prefix" hcl:"prefix"`
	Package string `toml:"package" yaml:"package" hcl:"package"`
}
