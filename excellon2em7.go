package main

import "github.com/VasiliyTurchenko/excellon2em7/excellon2em7"

func main() {
	excellon2em7.Main()
}
