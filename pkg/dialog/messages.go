package dialog

import (
	"fmt"
	"strings"

	"learnandtry-be/pkg/dialog/extract"
)

// Bot message templates. Wording mirrors the webapp copy, including the
// device list shown to the user.

const deviceList = "( PC, Mac, Chromebook, iPhone, iPad, Android Phone, Android Tablet, Fire tablet)"

func openingQuestion() string {
	return "Hello! I'm here to help you find the right accessibility tools. " +
		"First, let me ask: Who are you searching for tools for? Is this for you, or for someone else?"
}

func whoClarification() string {
	return "Are you looking for accessibility tools for yourself, or for someone else?"
}

func deviceQuestion(state *State) string {
	if state.Relationship != "" && state.Relationship != "someone else" {
		return fmt.Sprintf("Great! Now which devices would you like %s to be able to use or use better — at home, school, library etc.  List all that you are interested in %s", state.Relationship, deviceList)
	}
	if state.TargetPerson == "you" {
		return "Great! Now which devices would you like to be able to use or use better — at home, school, library etc.  List all that you are interested in " + deviceList
	}
	return "Great! Now which devices would you like them to be able to use or use better — at home, school, library etc.  List all that you are interested in " + deviceList
}

func problemQuestion(targetPerson string) string {
	if targetPerson == "you" {
		return "Perfect! Now, please describe the problems you are having in accessing or using those devices?"
	}
	return fmt.Sprintf("Perfect! Now, please describe the problems %s is having in accessing or using those devices?", targetPerson)
}

func noDevicesMessage(targetPerson string) string {
	if targetPerson == "you" {
		return "I understand. Let's focus on what tools might be available to you. Please describe the problems you are having in accessing or using those devices?"
	}
	return fmt.Sprintf("I understand. Let's focus on what tools might be available to %s. Please describe the problems %s is having in accessing or using those devices?", targetPerson, targetPerson)
}

func deviceClarification(targetPerson string, unclear []string) string {
	needs := make(map[string]bool, len(unclear))
	for _, u := range unclear {
		needs[u] = true
	}

	var clarifications []string
	if needs[extract.CategorySmartphone] || needs[extract.CategoryPhone] {
		clarifications = append(clarifications, "What type of smartphone/phone (iPhone or Android)?")
	}
	if needs[extract.CategoryLaptop] || needs[extract.CategoryComputer] {
		clarifications = append(clarifications, "What operating system for the laptop/computer (Windows, Mac, or Chromebook)?")
	}
	if needs[extract.CategoryTablet] {
		clarifications = append(clarifications, "What type of tablet (iPad or Android tablet)?")
	}

	joined := strings.Join(clarifications, " And ")
	if targetPerson == "you" {
		return "Great! To help you find the right tools, could you tell me: " + joined
	}
	return fmt.Sprintf("Great! To help find the right tools for %s, could you tell me: %s", targetPerson, joined)
}

func defaultClarifyQuestion() string {
	return "Could you tell me more about what you're having trouble with?"
}

// finalResultsMessage tells the user how many items currently match and how
// to narrow the list further. Rendered as HTML by the webapp panel.
func finalResultsMessage(matchingCount int) string {
	return fmt.Sprintf(` Click on any item in the list on the right to learn more about it<br><br>

✅ <strong>There are %d items that match. </strong><br>
If you would like to make the list shorter you can use the checkboxes under  “Built in or Installed?”  Or  “Purchase Options" to explore only items for each of those categories.`, matchingCount)
}
