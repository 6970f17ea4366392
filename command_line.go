package roadrunner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	OptionPrefixes = []string{"--", "-"}
	OptionList     = []*Option{
		&Option{
			Name:        "P",
			HasArgument: true,
			Doc:         "load properties from the given file",
		},
		&Option{
			Name:        "p",
			HasArgument: true,
			Doc:         "set a property value (name=value)",
		},
		&Option{
			Name:         OptNodes,
			HasArgument:  true,
			DefaultValue: DefaultNodes,
			Doc:          "comma-separated list of store nodes",
		},
		&Option{
			Name:         OptBucket,
			HasArgument:  true,
			DefaultValue: DefaultBucket,
			Doc:          "name of the bucket/keyspace to use",
		},
		&Option{
			Name:         OptPassword,
			HasArgument:  true,
			DefaultValue: DefaultPassword,
			Doc:          "password of the bucket",
		},
		&Option{
			Name:         OptNumClients,
			HasArgument:  true,
			DefaultValue: DefaultNumClients,
			Doc:          "number of client handlers",
		},
		&Option{
			Name:         OptNumThreads,
			HasArgument:  true,
			DefaultValue: DefaultNumThreads,
			Doc:          "number of worker threads per client",
		},
		&Option{
			Name:         OptNumDocs,
			HasArgument:  true,
			DefaultValue: DefaultNumDocs,
			Doc:          "number of documents in the keyspace",
		},
		&Option{
			Name:         OptReadRatio,
			HasArgument:  true,
			DefaultValue: DefaultReadRatio,
			Doc:          "relative weight of read operations",
		},
		&Option{
			Name:         OptWriteRatio,
			HasArgument:  true,
			DefaultValue: DefaultWriteRatio,
			Doc:          "relative weight of write operations",
		},
		&Option{
			Name:         OptPhase,
			HasArgument:  true,
			DefaultValue: DefaultPhase,
			Doc:          "phase to execute (load or run)",
		},
		&Option{
			Name:         OptRamp,
			HasArgument:  true,
			DefaultValue: DefaultRamp,
			Doc:          "ramp-up time in seconds excluded from sampling",
		},
		&Option{
			Name:         OptBatchSize,
			HasArgument:  true,
			DefaultValue: DefaultBatchSize,
			Doc:          "batch size for bulk operations",
		},
		&Option{
			Name:         OptSampling,
			HasArgument:  true,
			DefaultValue: DefaultSampling,
			Doc:          "percentage of operations to measure",
		},
		&Option{
			Name:         OptClassName,
			HasArgument:  true,
			DefaultValue: DefaultClass,
			Doc:          "document generator class (Simple or Json)",
		},
		&Option{
			Name:         OptMinThinkTime,
			HasArgument:  true,
			DefaultValue: DefaultMinThinkTime,
			Doc:          "minimum think time between operations in ms",
		},
		&Option{
			Name:         OptMaxThinkTime,
			HasArgument:  true,
			DefaultValue: DefaultMaxThinkTime,
			Doc:          "maximum think time between operations in ms (0 disables)",
		},
		&Option{
			Name:         OptStore,
			HasArgument:  true,
			DefaultValue: DefaultStore,
			Doc:          "store backend to drive",
		},
		&Option{
			Name:         OptLogLevel,
			HasArgument:  true,
			DefaultValue: DefaultLogLevel,
			Doc:          "log level (verbose, debug, info, warn, error, quiet)",
		},
		&Option{
			Name: "h",
			Doc:  "show this help message and exit",
		},
		&Option{
			Name: "help",
			Doc:  "show this help message and exit",
		},
	}
	Options = make(map[string]*Option)

	ProgramName = ""
)

type Option struct {
	Name         string
	HasArgument  bool
	DefaultValue string
	Doc          string
}

func init() {
	ProgramName = filepath.Base(os.Args[0])
	for i := 0; i < len(OptionList); i++ {
		o := OptionList[i]
		Options[o.Name] = o
	}
}

func Usage() {
	Println("usage: %s [options]", ProgramName)
	Println("")
	Println("Stores:")
	names := RegisteredClusters()
	Println("  %s", strings.Join(names, ", "))
	Println("")
	Println("Options:")
	for _, o := range OptionList {
		arg := ""
		if o.HasArgument {
			arg = " <value>"
		}
		line := fmt.Sprintf("  -%s%s", o.Name, arg)
		if o.DefaultValue != "" {
			Println("%-26s: %s (default: %s)", line, o.Doc, o.DefaultValue)
		} else {
			Println("%-26s: %s", line, o.Doc)
		}
	}
}

func ExitOnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}

// ParseArgs turns the command line into a flat property map. Named
// options, "-p name=value" pairs and "-P file" property files all land in
// the same map; later arguments override earlier ones.
func ParseArgs() Properties {
	props := NewProperties()
	args := os.Args
	for i := 1; i < len(args); i++ {
		a := args[i]
		for _, p := range OptionPrefixes {
			if strings.HasPrefix(a, p) {
				a = strings.TrimPrefix(a, p)
				break
			}
		}
		option, ok := Options[a]
		if !ok {
			ExitOnError("unknown option: %s", args[i])
		}
		if !option.HasArgument {
			if option.Name == "h" || option.Name == "help" {
				Usage()
				os.Exit(0)
			}
			continue
		}
		i++
		if !(i < len(args)) {
			ExitOnError("missing argument for option: %s", option.Name)
		}
		arg := args[i]
		switch option.Name {
		case "p":
			// it's a property, should be in `k=v` form
			parts := strings.SplitN(arg, "=", 2)
			if len(parts) != 2 {
				ExitOnError("invalid property: %s", arg)
			}
			props.Add(parts[0], parts[1])
		case "P":
			propsFromFile, err := LoadProperties(arg)
			if err != nil {
				ExitOnError("%s", err)
			}
			props.Merge(propsFromFile)
		default:
			props.Add(option.Name, arg)
		}
	}
	return props
}

// Run executes one complete workload for the given properties: configure,
// connect, dispatch, report.
func Run(props Properties) error {
	if err := SetLogLevel(props.GetDefault(OptLogLevel, DefaultLogLevel)); err != nil {
		return err
	}
	config, err := NewGlobalConfig(props)
	if err != nil {
		return err
	}
	Infof("%s", config)

	dispatcher, err := NewWorkloadDispatcher(config, props)
	if err != nil {
		return err
	}
	if err := dispatcher.Init(); err != nil {
		return err
	}

	start := time.Now()
	runErr := dispatcher.DispatchWorkload()
	elapsed := time.Since(start)
	if runErr != nil {
		return runErr
	}

	dispatcher.PrepareMeasures()
	report := BuildReport(dispatcher, elapsed)
	report.Print()
	return nil
}

func Main() {
	props := ParseArgs()
	if err := Run(props); err != nil {
		ExitOnError("%s: %s", ProgramName, err)
	}
}
