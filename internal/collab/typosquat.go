package collab

// npmTyposquats and pipTyposquats generalize the teacher's
// internal/hooks/dependency_typosquat.go install-command tables into a
// static manifest-name lookup: same known-bad-name -> real-package-name
// table, checked against declared dependency names instead of a shell
// command's install arguments.
var npmTyposquats = map[string]string{
	"lod-ash":       "lodash",
	"lodahs":        "lodash",
	"expres":        "express",
	"expresss":      "express",
	"requets":       "request",
	"reqeust":       "request",
	"electorn":      "electron",
	"electronjs":    "electron",
	"crossenv":      "cross-env",
	"cross_env":     "cross-env",
	"babelcli":      "@babel/cli",
	"babel-cli":     "@babel/cli",
	"coffe-script":  "coffeescript",
	"event-stream2": "event-stream",
	"gruntcli":      "grunt-cli",
	"mongose":       "mongoose",
	"node-fabric":   "fabric",
	"node-opencv":   "opencv",
	"node-opensl":   "openssl",
	"nodefabric":    "fabric",
	"nodesass":      "node-sass",
	"shadowsock":    "shadowsocks",
	"discordi.js":   "discord.js",
	"colored":       "colors",
	"colors.js":     "colors",
}

var pipTyposquats = map[string]string{
	"reqeusts":     "requests",
	"requets":      "requests",
	"reequests":    "requests",
	"djago":        "django",
	"djnago":       "django",
	"djangoo":      "django",
	"flaask":       "flask",
	"flaskk":       "flask",
	"urlib3":       "urllib3",
	"urrlib3":      "urllib3",
	"numppy":       "numpy",
	"nuumpy":       "numpy",
	"pandass":      "pandas",
	"beutifulsoup": "beautifulsoup4",
	"colourama":    "colorama",
}
