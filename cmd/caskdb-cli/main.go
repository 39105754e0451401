package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/quentin-auge/caskdb/caskdb"
	"github.com/quentin-auge/caskdb/internal/config"
	"github.com/quentin-auge/caskdb/internal/utils"
)

func main() {
	host := flag.String("host", config.DefaultHost, "caskdb server host")
	port := flag.Int("port", config.DefaultPort, "caskdb server port")
	flag.Parse()

	client, err := caskdb.Connect(caskdb.WithHost(*host), caskdb.WithPort(*port))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	fmt.Printf("Connected to %v:%d\n", *host, *port)
	fmt.Println("Type commands. 'help' for information or 'exit' to quit.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("input error:", err)
			return
		}

		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		if line == "exit" {
			return
		}

		cmd, key, value, err := utils.SplitStringIntoCommandAndArguments(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}

		resp, err := client.Execute(cmd, key, value)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}

		fmt.Println(resp)
	}
}
