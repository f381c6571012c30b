package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Capture bool
	Read    bool
	Replay  bool
	Fork    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Capture = boolEnv("XSB_DEBUG_CAPTURE")
	d.Read = boolEnv("XSB_DEBUG_READ")
	d.Replay = boolEnv("XSB_DEBUG_REPLAY")
	d.Fork = boolEnv("XSB_DEBUG_FORK")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Capture() bool {
	return d.Capture
}
func Read() bool {
	return d.Read
}
func Replay() bool {
	return d.Replay
}
func Fork() bool {
	return d.Fork
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
	os.Stderr.Write([]byte{'\n'})
}
