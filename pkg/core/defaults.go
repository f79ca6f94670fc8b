package core

// DefaultStore returns the example dataset used when nothing has been saved yet.
func DefaultStore() Store {
	return NewStore(
		Deck{
			ID:   "5a4a7b1c-a560-4d7c-a95c-d843e6a6e3c8",
			Name: "Welcome/Read Me",
			Rows: []Row{
				single("3e797a69-a9ae-42d2-9438-fb03e2a59437", "30292bc9-4e0d-451b-9cff-bd51148ed079",
					"Welcome to Copy Deck!",
					"Why copy and paste information when you can keep it one command away?\n\nEvery card is a label and a snippet. Copy the snippet, move on."),
				single("fb74f764-e355-4630-83d9-c12b3c2d8fef", "2c73bff6-2309-4807-a9de-d6a0e79eab62",
					"How to use:",
					"Create decks with `copydeck deck add`.\nCreate cards with `copydeck card add`.\nEdit cards with `copydeck card edit`.\nDelete decks or cards with `rm`.\nReorder with `move`."),
				single("c6dcd380-406d-4ada-b3e4-2fec0ce214f4", "ab690b8f-fdb0-489c-b456-66409b1076cb",
					"Filling in the same job application form for the hundredth time? Keep the answers in a card and copy them from there.",
					"My salary expectation is $1,000,000.00 plus 30% bonus."),
				single("bdba9097-fc87-4487-9429-cf8cc0932330", "04479b27-2915-4f36-8005-a6c48663a9a7",
					"What was that git command to remove files from the staging area? Oh yeah!",
					"git reset HEAD"),
				single("e8a9c0f9-df93-466c-980e-2ed5ec38fd1b", "c7c1005c-4eb3-452a-ace4-13c3752a3040",
					"Something is already listening on port 3000. What is it?",
					"lsof -i :3000"),
				single("2c787d54-1d47-47e4-aff9-7ea73f463065", "38f3a17e-845f-42ec-b61b-e50dc2f97b3a",
					"What was that shrug emoticon again?",
					"¯\\_(ツ)_/¯"),
			},
		},
		Deck{
			ID:   "276eeb1c-c8b5-4680-b593-fa59ab079d0e",
			Name: "General Info/Links",
			Rows: []Row{
				single("9a66a1ef-802f-443c-a4b1-cbc610433db3", "d6581a5a-8c0f-4d3b-9f98-723b43c982d0",
					"LinkedIn", "https://www.linkedin.com/in/your-profile/"),
				single("a7b275ad-a5a0-4a36-924b-59afc1c531e2", "ba355d49-5280-4259-91c3-7e673f18d891",
					"GitHub", "https://github.com/your-handle"),
				single("6f157f0a-ab3a-4449-8d8e-8634e5574176", "bcc2f8a1-c229-4dec-831c-d014c98c38fb",
					"Portfolio Website", "https://example.com"),
			},
		},
		Deck{
			ID:   "ec81afe4-1dc2-4746-89cc-451055d174c0",
			Name: "Resume",
			Rows: []Row{
				single("d58b7e7d-fc5d-4e86-b858-00945294787f", "c78ccae9-4888-4095-9bab-469c99433899",
					"Current role",
					"Maintained the shared component library and the CI/CD pipelines for a digital banking platform."),
				single("c677df55-cc5f-4176-98c0-ced05e0f6411", "6fb50f83-e635-479c-a1e7-041c2af242f0",
					"Previous role",
					"Rebuilt the company website from scratch, cutting load time by 64% and bounce rate by 50%."),
				single("599e723f-1a5b-49ed-b159-959800c37c8f", "ce632cdd-1d5d-4929-bae2-90b54cfc2db2",
					"First role",
					"Shipped nine responsive websites and introduced end-to-end testing to the team."),
			},
		},
	)
}

func single(rowID, colID, label, content string) Row {
	return Row{ID: rowID, Columns: []Card{{ID: colID, Label: label, Content: content}}}
}
