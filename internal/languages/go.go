package languages

// Go covers os.Getenv("KEY") and os.LookupEnv("KEY"). The call argument is
// treated like an index.
var Go = newDialect(Dialect{
	Name:       "go",
	Extensions: []string{".go"},
	Accessors: []Accessor{
		{Object: `os\.Getenv`, Open: "(", Close: ")"},
		{Object: `os\.LookupEnv`, Open: "(", Close: ")"},
	},
})
