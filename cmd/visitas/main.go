// visitas es la CLI del núcleo de reportes: inicio de sesión duradero, alta de reportes,
// consulta/exportación y administración de cuentas.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}
