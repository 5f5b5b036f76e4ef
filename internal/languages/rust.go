package languages

// Rust covers env::var("KEY") and env::var_os("KEY"), with or without the
// std:: prefix. An unwrap_or* call supplies a fallback.
var Rust = newDialect(Dialect{
	Name:       "rust",
	Extensions: []string{".rs"},
	Accessors: []Accessor{
		{Object: `env::var`, Open: "(", Close: ")"},
		{Object: `env::var_os`, Open: "(", Close: ")"},
	},
	Fallback: `\.unwrap_or`,
})
