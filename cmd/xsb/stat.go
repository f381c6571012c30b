package main

import (
	"fmt"

	"github.com/signadot/xsb/buffer"

	"github.com/scott-cotton/cli"
)

type stats struct {
	elements, attrs, namespaces, texts, comments, procInsts int
	maxDepth                                                int
}

func collect(b *buffer.Buffer) (stats, error) {
	var st stats
	r := buffer.NewReader(b)
	for {
		kind, err := r.Next()
		if err != nil {
			return st, err
		}
		switch kind {
		case buffer.EndDocument:
			return st, nil
		case buffer.StartElement:
			st.elements++
			st.maxDepth = max(st.maxDepth, r.Depth())
			attrs, _ := r.Attrs()
			st.attrs += len(attrs)
			decls, _ := r.NamespaceDecls()
			st.namespaces += len(decls)
		case buffer.Text:
			st.texts++
		case buffer.Comment:
			st.comments++
		case buffer.ProcInst:
			st.procInsts++
		}
	}
}

func stat(cfg *StatConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Stat.Parse(cc, args)
	if err != nil {
		cfg.Stat.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	for _, arg := range inputs(args) {
		b, err := cfg.load(arg)
		if err != nil {
			return err
		}
		st, err := collect(b)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", arg, err)
		}
		_, err = fmt.Fprintf(cc.Out, "%s: fragment=%v trees=%d size=%d elements=%d attrs=%d namespaces=%d texts=%d comments=%d procinsts=%d depth=%d\n",
			arg, b.IsFragment(), b.TreeCount(), b.Size(),
			st.elements, st.attrs, st.namespaces, st.texts, st.comments, st.procInsts, st.maxDepth)
		if err != nil {
			return err
		}
	}
	return nil
}
