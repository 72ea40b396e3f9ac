package shell

import "io"

const usageText = `Commands:
  new [dim]          start a fresh game (default dimension from config)
  move <square>      place the side-to-move stone, e.g. move h8
  play [ms]          let the engine pick and play a move
  search [ms]        search without playing the move
  solve [-file f] [-time ms]
                     load a position (optional) and search it once
  undo               take back the last move
  show               print the board
  compact            print the position in compact one-line form
  load <file>        load a position from a grid file or compact string
  weights <file>     load evaluation weights from a YAML file
  set threads <n>    change the search worker count
  set time <ms>      change the default time limit
  perf [secs]        measure evaluation throughput
  help               this text
  exit               quit
`

func usage(w io.Writer) {
	io.WriteString(w, usageText)
}
