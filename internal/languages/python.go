package languages

// Python covers os.environ["KEY"], os.environ.get("KEY") and
// os.getenv("KEY"). A second argument to get/getenv or a trailing `or`
// supplies a fallback.
var Python = newDialect(Dialect{
	Name:       "python",
	Extensions: []string{".py"},
	Accessors: []Accessor{
		{Object: `os\.environ`, Open: "[", Close: "]"},
		{Object: `os\.environ\.get`, Open: "(", Close: ")", DefaultArg: true},
		{Object: `os\.getenv`, Open: "(", Close: ")", DefaultArg: true},
	},
	Fallback: `or\b`,
})
