package main

// See doc.go for documentation

import (
	"log"
	"os"
	"strings"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/mtcirc/circular"
	"github.com/grailbio/mtcirc/encoding/samio"
	"v.io/x/lib/cmdline"
)

const (
	progName    = "bio-mtcirc"
	progVersion = "0.1.0"
)

type flags struct {
	output      string
	refName     string
	targetName  string
	refLen      uint
	format      string
	allRefs     bool
	metrics     string
	parallelism int
}

func newCmd() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     progName,
		Short:    "Convert alignments on a doubled circular reference to a single linear copy",
		Long: `Records starting in the second copy of the doubled reference are shifted
into the first copy. Records crossing the join are split into two records.`,
		ArgsName: "input",
		ArgsLong: `<input> is a SAM, gzipped SAM, or BAM file. "-" reads stdin.`,
	}
	f := &flags{}
	cmd.Flags.StringVar(&f.output, "o", "", "Output path. Same as -output")
	cmd.Flags.StringVar(&f.output, "output", "", "Output path. If empty or '-', records are written to stdout")
	cmd.Flags.StringVar(&f.refName, "r", "", "Same as -ref")
	cmd.Flags.StringVar(&f.refName, "ref", "", "Name of the doubled reference in the input header. Required")
	cmd.Flags.StringVar(&f.targetName, "t", circular.DefaultTargetName, "Same as -targetref")
	cmd.Flags.StringVar(&f.targetName, "targetref", circular.DefaultTargetName, "Name of the single-copy reference in the output")
	cmd.Flags.UintVar(&f.refLen, "l", circular.DefaultRefLen, "Same as -reflen")
	cmd.Flags.UintVar(&f.refLen, "reflen", circular.DefaultRefLen, "Length of one copy of the circular reference")
	cmd.Flags.StringVar(&f.format, "format", "", `Output format, "sam" or "bam". If empty, guessed from the output path; SAM for stdout`)
	cmd.Flags.BoolVar(&f.allRefs, "all-refs", false, "Convert records on every reference, not only the doubled one")
	cmd.Flags.StringVar(&f.metrics, "metrics", "", "If nonempty, write conversion counts to this TSV file")
	cmd.Flags.IntVar(&f.parallelism, "parallelism", 0, "Number of BAM (de)compression goroutines. If <= 0, the number of CPUs")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return env.UsageErrorf("%s takes one input path, but got %v", progName, argv)
		}
		return run(env, f, argv[0])
	})
	return cmd
}

func run(env *cmdline.Env, f *flags, inPath string) error {
	if f.refName == "" {
		return env.UsageErrorf("-ref must be set")
	}
	outFormat := samio.Unknown
	if f.format != "" {
		if outFormat = samio.ParseFileType(f.format); outFormat == samio.Unknown {
			return env.UsageErrorf("unknown output format %q", f.format)
		}
	}
	opts := circular.Opts{
		RefName:    f.refName,
		TargetName: f.targetName,
		RefLen:     int(f.refLen),
		AllRefs:    f.allRefs,
		Program:    sam.NewProgram(progName, progName, strings.Join(os.Args, " "), "", progVersion),
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	ctx := vcontext.Background()
	in, err := samio.Open(ctx, inPath, samio.ReaderOpts{
		Parallelism: f.parallelism,
		Stdin:       env.Stdin,
	})
	if err != nil {
		return err
	}
	metrics, err := circular.Convert(ctx, opts, in, func(h *sam.Header) (circular.RecordWriter, error) {
		return samio.Create(ctx, f.output, h, samio.WriterOpts{
			Format:      outFormat,
			Parallelism: f.parallelism,
			Stdout:      env.Stdout,
		})
	})
	e := errors.Once{}
	e.Set(err)
	e.Set(in.Close())
	if e.Err() == nil && f.metrics != "" {
		e.Set(metrics.WriteTSV(ctx, f.metrics))
	}
	return e.Err()
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmd())
}
