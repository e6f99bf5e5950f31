// Command create-admin interactively creates an admin account.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

func main() {

	fmt.Println("Generating admin account")

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Enter username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Enter password: ")
	password1, _ := reader.ReadString('\n')
	password1 = strings.TrimSpace(password1)

	fmt.Print("Confirm password: ")
	password2, _ := reader.ReadString('\n')
	password2 = strings.TrimSpace(password2)

	if password1 != password2 {
		fmt.Println("Passwords do not match.")
		os.Exit(1)
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	existing := model.User{}
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		fmt.Println("Username already taken")
		os.Exit(1)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check username: %v", err)
	}

	utilities.CreateAdmin(password1, username, db.DB)
	fmt.Printf("Admin account %q created.\n", username)
}
